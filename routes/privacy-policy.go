package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the Privacy Policy content
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	// Serve Privacy Policy content as HTML
	html := `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Privacy Policy</title>
	</head>
	<body>
		<h1>Privacy Policy</h1>
		<p>Loneton stores your profile, your questionnaire answers, your conversations and the reasons given when a match is unpinned.</p>
		<p>Compatibility answers are only used to score matches and are never shown to other users. Unpin reasons are shared with the person they concern.</p>
		<p>Contact us at <a href="mailto:support@loneton.app">support@loneton.app</a> for questions.</p>
	</body>
	</html>
	`
	fmt.Fprint(w, html)
}
