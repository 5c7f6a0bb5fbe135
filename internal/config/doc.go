// Package config loads and validates pmweb.json.
//
// pmweb.json configures both halves of pmweb: the HTTP server that renders
// ProjectMan pages and serves /api/config, and the headless page runtime
// used by `pmweb visit` and `pmweb theme`.
//
//	{
//	  "name": "ProjectMan",
//	  "server": {"host": "127.0.0.1", "port": 8000, "metrics": true},
//	  "client": {
//	    "baseURL": "http://127.0.0.1:8000",
//	    "storage": {"backend": "file", "path": "~/.config/pmweb/prefs.json"}
//	  },
//	  "toast": {"display": "3s", "fade": "300ms"}
//	}
//
// Missing fields take the defaults from New. Durations use Go syntax.
package config
