package main

import (
	"html/template"
	"io"
	"time"

	"github.com/ringfs/chfsd/ring"
)

const pageContent = `
<!DOCTYPE html>
<html>
	<head>
		<meta charset="UTF-8">
		<title>chfsd ring status</title>
	</head>
	<body>
		<h1>Ring Status</h1>
		<p>Self: {{ .Self }}</p>
		<p>Current time: {{ .Now }}</p>

		<h2>Neighbour Table</h2>
		<ul>
			<li>next: {{ .Next }}</li>
			<li>prev: {{ .Prev }}</li>
			<li>next_next: {{ .NextNext }}</li>
			<li>prev_prev: {{ .PrevPrev }}</li>
		</ul>

		<h2>Membership List</h2>
		<ul>
			{{ range $id := .Membership }}
				<li>{{ $id }}</li>
			{{ end }}
		</ul>
	</body>
</html>
`

var pageTemplate = template.Must(template.New("status").Parse(pageContent))

type statusPage struct {
	Self       string
	Now        time.Time
	Next       string
	Prev       string
	NextNext   string
	PrevPrev   string
	Membership []string
}

// writeStatusPage renders srv's current neighbour table and membership
// list. It reads the Neighbour Table through the same refcounted Snapshot
// path every RPC handler uses, so a concurrent Set can never be observed
// half-applied.
func writeStatusPage(w io.Writer, srv *ring.Server) {
	get := func(role ring.Role) string {
		snap := srv.Table().Get(role)
		defer snap.Release()
		return snap.ID
	}

	page := statusPage{
		Self:       srv.Self(),
		Now:        time.Now(),
		Next:       get(ring.RoleNext),
		Prev:       get(ring.RolePrev),
		NextNext:   get(ring.RoleNextNext),
		PrevPrev:   get(ring.RolePrevPrev),
		Membership: srv.Membership().Copy(),
	}

	_ = pageTemplate.Execute(w, page)
}
