package api

import (
	"net/http"

	"github.com/thisisjab/plzero/lexer"
	"github.com/thisisjab/plzero/token"
)

type lexRequest struct {
	Source string `json:"source"`
}

func (s *server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, apiResponse{ //nolint:errcheck
		Success: true,
		Message: "OK",
	}, nil)
}

func (s *server) keywordsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, apiResponse{ //nolint:errcheck
		Success: true,
		Data:    map[string]any{"keywords": token.Keywords()},
	}, nil)
}

// lexHandler scans the posted source text. The whole scan fails on the first lexical
// error, in which case no tokens are returned.
func (s *server) lexHandler(w http.ResponseWriter, r *http.Request) {
	var req lexRequest
	if s.returnOnError(w, r, s.readJson(w, r, &req)) {
		return
	}

	tokens, err := lexer.New([]byte(req.Source), s.lexerOpts...).Lex()
	if s.returnOnError(w, r, err) {
		return
	}

	s.logger.Debug("lexed source", "run_id", requestID(r.Context()), "bytes", len(req.Source), "tokens", len(tokens))

	s.writeJson( // nolint:errcheck
		w,
		http.StatusOK,
		apiResponse{
			Success: true,
			Data:    map[string]any{"tokens": tokens},
			Metadata: map[string]any{
				"count": len(tokens),
			},
		},
		nil,
	)
}
