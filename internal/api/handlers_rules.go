package api

import (
	"io"
	"net/http"

	"github.com/dgallion1/papersect/internal/rules"
	"gopkg.in/yaml.v3"
)

const maxRulesBytes = 1 << 20

// handleGetRules returns the rule table currently in effect as YAML.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(s.orchestrator.Rules().Load())
	if err != nil {
		jsonError(w, "failed to encode rules: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

// handlePutRules merges a YAML overlay over the built-in rules and makes
// the result active for requests and jobs that start afterwards.
func (s *Server) handlePutRules(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRulesBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(data) > maxRulesBytes {
		jsonError(w, "rules overlay too large", http.StatusRequestEntityTooLarge)
		return
	}

	set, err := rules.Parse(data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.orchestrator.Rules().Swap(set)
	s.log.Info("rules replaced over http", "bytes", len(data))

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
