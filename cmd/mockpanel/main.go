// mockpanel 在本地模拟一个 serv00 风格的面板登录页，方便端到端手工验证：
//
//	go run ./cmd/mockpanel -addr :8080 -user alice -pass secret
//
// 账号名带 "banned" 前缀时渲染封禁页，其余按用户名/密码匹配结果渲染。
package main

import (
	crand "crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Panel - Zaloguj się</title></head>
<body>
<h1>Zaloguj się</h1>
%s
<form method="post" action="/login/">
<input type="hidden" name="csrfmiddlewaretoken" value="%s">
<input type="text" name="username">
<input type="password" name="password">
<button type="submit">Login</button>
</form>
</body>
</html>`

const dashboardPage = `<!DOCTYPE html>
<html>
<head><title>Panel - Strona główna</title></head>
<body>
<h1>Strona główna</h1>
<p>Zalogowany jako %s</p>
<table><tr><td>Konto ważne do: 2 stycznia 2036</td></tr></table>
</body>
</html>`

const bannedPage = `<!DOCTYPE html>
<html>
<head><title>Panel</title></head>
<body>
<p>Konto zablokowane: TOS violation<br></p>
</body>
</html>`

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	user := flag.String("user", "alice", "accepted username")
	pass := flag.String("pass", "secret", "accepted password")
	flag.Parse()

	var mu sync.Mutex
	tokens := map[string]bool{}

	mux := http.NewServeMux()

	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			token := randToken()
			mu.Lock()
			tokens[token] = true
			mu.Unlock()
			fmt.Fprintf(w, loginPage, "", token)

		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			token := r.PostFormValue("csrfmiddlewaretoken")
			mu.Lock()
			known := tokens[token]
			delete(tokens, token)
			mu.Unlock()
			if !known {
				http.Error(w, "CSRF verification failed", http.StatusForbidden)
				return
			}

			username := r.PostFormValue("username")
			if strings.HasPrefix(username, "banned") {
				fmt.Fprint(w, bannedPage)
				return
			}
			if username == *user && r.PostFormValue("password") == *pass {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next := randToken()
			mu.Lock()
			tokens[next] = true
			mu.Unlock()
			alert := `<div class="alert alert-danger">Błędna nazwa użytkownika lub hasło</div>`
			fmt.Fprintf(w, loginPage, alert, next)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, dashboardPage, *user)
	})

	log.Printf("mock panel listening on %s (user=%s)", *addr, *user)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func randToken() string {
	b := make([]byte, 16)
	_, _ = crand.Read(b)
	return hex.EncodeToString(b)
}
