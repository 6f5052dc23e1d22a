package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"citizenhub/internal/officials"
)

// mirror-server stands in for the upstream API: GET /legislators?address=
// answers with the snapshot whose city key ends the address, e.g.
// "1 Main St, San Francisco, CA" serves "San Francisco CA.json".
func main() {
	var (
		addr = flag.String("addr", ":9000", "listen address")
		dir  = flag.String("dir", "", "snapshot directory (default: snapshots built into the binary)")
		key  = flag.String("key", os.Getenv("CITIZENHUB_API_KEY"), "required X-API-KEY value; empty accepts any")
	)
	flag.Parse()

	fsys := officials.EmbeddedSnapshots()
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	http.HandleFunc("/legislators", func(w http.ResponseWriter, r *http.Request) {
		if *key != "" && r.Header.Get(officials.APIKeyHeader) != *key {
			http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
			return
		}
		address := strings.TrimSpace(r.URL.Query().Get("address"))
		if address == "" {
			http.Error(w, `{"error":"address required"}`, http.StatusBadRequest)
			return
		}

		b, err := fs.ReadFile(fsys, officials.SnapshotKey(cityOf(address)))
		if errors.Is(err, fs.ErrNotExist) {
			b = []byte(`{"officials":[]}`)
		} else if err != nil {
			http.Error(w, "cannot read snapshot: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})

	log.Printf("mirror-server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

// cityOf keeps the last two comma-separated parts of an address.
func cityOf(address string) string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, ", ")
}
