package quadauth

import (
	"fmt"
	"html"
	"net/http"
)

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Login or Signup</title></head>
<body>
<h1>Welcome</h1>
<ul>
<li><a href="/login">Local Login</a></li>
<li><a href="/signup">Local Signup</a></li>
<li><a href="/auth/facebook">Facebook</a></li>
<li><a href="/auth/twitter">Twitter</a></li>
<li><a href="/auth/google">Google</a></li>
</ul>
</body>
</html>`)
}

func (a *App) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	a.renderLocalForm(w, r, "Login", "/login", "loginMessage")
}

func (a *App) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	a.renderLocalForm(w, r, "Signup", "/signup", "signupMessage")
}

func (a *App) handleConnectLocalForm(w http.ResponseWriter, r *http.Request) {
	a.renderLocalForm(w, r, "Add Local Account", "/connect/local", "signupMessage")
}

// renderLocalForm shows one email+password form, with the pending
// flash message (if any) surfaced above it.
func (a *App) renderLocalForm(w http.ResponseWriter, r *http.Request, title, action, flashName string) {
	message := a.Sessions.PopFlash(r.Context(), flashName)
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
%s
<form method="POST" action="%s">
	<label>Email: <input type="text" name="email"></label>
	<label>Password: <input type="password" name="password"></label>
	<button type="submit">%s</button>
</form>
</body>
</html>`, title, title, flashBlock(message), action, title)
}

func flashBlock(message string) string {
	if message == "" {
		return ""
	}
	return fmt.Sprintf(`<p class="flash">%s</p>`, html.EscapeString(message))
}

func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	w.Header().Set("Content-Type", "text/html")

	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Profile</title></head>
<body>
<h1>Profile</h1>
<p>User id: %s</p>
`, html.EscapeString(user.ID))

	writeIdentity(w, "Local", user.Local != nil && user.Local.Email != "", "local", func() string {
		return "email: " + html.EscapeString(user.Local.Email)
	})
	writeIdentity(w, "Facebook", user.Facebook != nil && user.Facebook.Token != "", "facebook", func() string {
		return fmt.Sprintf("name: %s, email: %s", html.EscapeString(user.Facebook.Name), html.EscapeString(user.Facebook.Email))
	})
	writeIdentity(w, "Twitter", user.Twitter != nil && user.Twitter.Token != "", "twitter", func() string {
		return fmt.Sprintf("@%s (%s)", html.EscapeString(user.Twitter.Username), html.EscapeString(user.Twitter.DisplayName))
	})
	writeIdentity(w, "Google", user.Google != nil && user.Google.Token != "", "google", func() string {
		return fmt.Sprintf("name: %s, email: %s", html.EscapeString(user.Google.Name), html.EscapeString(user.Google.Email))
	})

	fmt.Fprint(w, `<p><a href="/logout">Logout</a></p>
</body>
</html>`)
}

// writeIdentity renders one provider section: the stored details with
// an unlink link when connected, a connect link otherwise.
func writeIdentity(w http.ResponseWriter, title string, linked bool, slug string, details func() string) {
	fmt.Fprintf(w, "<h3>%s</h3>\n", title)
	if linked {
		fmt.Fprintf(w, "<p>%s</p>\n<p><a href=\"/unlink/%s\">Unlink</a></p>\n", details(), slug)
		return
	}
	connect := "/connect/" + slug
	if slug == "local" {
		connect = "/connect/local"
	}
	fmt.Fprintf(w, "<p>Not connected. <a href=%q>Connect</a></p>\n", connect)
}
