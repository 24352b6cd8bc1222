package web

import "html/template"

// Page rendering is deliberately skeletal: the real site chrome (styles,
// scripts, imagery) ships separately. These templates carry just enough
// markup for the flows to be exercised end to end.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="{{.Language}}">
<head><meta charset="UTF-8"><title>DiscoBots.fr - {{.Title}}</title></head>
<body class="{{.Theme}}">
{{if .User}}<div class="user-greeting">Hello {{.User.Username}}!</div>{{end}}
{{if .Error}}<div class="flash-message">{{.Error}}</div>{{end}}
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "index"}}{{template "head" .}}
<section class="home-hero"><h1>Welcome to DiscoBots.fr</h1>
<a href="/discord">Add to Discord</a></section>
{{template "foot" .}}{{end}}

{{define "discord"}}{{template "head" .}}
<section><h1>Discord</h1>
<a href="https://discord.com/oauth2/authorize">Invite the bot</a></section>
{{template "foot" .}}{{end}}

{{define "terms"}}{{template "head" .}}
<section><h1>Terms of Service</h1></section>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}
<form method="post" action="/login{{if .Next}}?next={{.Next}}{{end}}">
<input name="username" required>
<input name="password" type="password" required>
<input name="remember_me" type="checkbox">
<button type="submit">Sign In</button>
</form>
{{template "foot" .}}{{end}}

{{define "register"}}{{template "head" .}}
<form method="post" action="/register">
<input name="username" required>
<input name="email" type="email" required>
<input name="password" type="password" required>
<input name="password2" type="password" required>
<button type="submit">Create Account</button>
</form>
{{template "foot" .}}{{end}}

{{define "settings"}}{{template "head" .}}
<form method="post" action="/settings">
<select name="theme">
<option value="light" {{if eq .Theme "light"}}selected{{end}}>White</option>
<option value="dark" {{if eq .Theme "dark"}}selected{{end}}>Black</option>
</select>
<select name="language">
<option value="en" {{if eq .Language "en"}}selected{{end}}>English</option>
<option value="fr" {{if eq .Language "fr"}}selected{{end}}>Français</option>
</select>
<button type="submit">Save Settings</button>
</form>
{{template "foot" .}}{{end}}

{{define "checkout_success"}}{{template "head" .}}
<section><h1>Thank you for your purchase!</h1></section>
{{template "foot" .}}{{end}}

{{define "checkout_cancel"}}{{template "head" .}}
<section><h1>Checkout cancelled</h1></section>
{{template "foot" .}}{{end}}

{{define "checkout_error"}}{{template "head" .}}
<section><h1>Payment failed</h1><p>{{.Error}}</p></section>
{{template "foot" .}}{{end}}
`))
