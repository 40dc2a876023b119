package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

// isDocsRoute reports whether r asks for one of the documentation endpoints.
func (rt *Router) isDocsRoute(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path
	return (rt.docsPath != "" && path == rt.docsPath) ||
		(rt.docsYAMLPath != "" && path == rt.docsYAMLPath)
}

// ServeDocs writes the loaded document. Requests for the YAML path get YAML,
// everything else gets JSON. The encoded document is built once and cached.
func (rt *Router) ServeDocs(w http.ResponseWriter, r *http.Request) {
	if rt.docsYAMLPath != "" && r.URL.Path == rt.docsYAMLPath {
		rt.serveYAML(w)
		return
	}

	rt.serveJSON(w)
}

func (rt *Router) serveJSON(w http.ResponseWriter) {
	c := &rt.docsJSON
	c.once.Do(func() {
		defer func() {
			if rv := recover(); rv != nil {
				c.err = fmt.Errorf("%v", rv)
			}
		}()
		c.data, c.err = json.MarshalIndent(rt.doc.Raw(), "", "  ")
	})
	if c.err != nil {
		http.Error(w, "failed to serialize swagger document as JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.data)
}

func (rt *Router) serveYAML(w http.ResponseWriter) {
	c := &rt.docsYAML
	c.once.Do(func() {
		defer func() {
			if rv := recover(); rv != nil {
				c.err = fmt.Errorf("%v", rv)
			}
		}()
		c.data, c.err = yaml.Marshal(rt.doc.Raw())
	})
	if c.err != nil {
		http.Error(w, "failed to serialize swagger document as YAML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.data)
}
