package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chessperm "github.com/chessperm/chessperm-go"
	"github.com/chessperm/chessperm-go/internal/api"
	"github.com/chessperm/chessperm-go/internal/crypto"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", Suite: crypto.Ciphersuite})
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req api.DeriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	mode, opts, err := s.deriveOptions(req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	key, err := chessperm.DeriveContext(r.Context(), mode, req.Input, opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	engine := req.Engine
	if engine == "" || req.Robust {
		engine = string(chessperm.EngineSPN)
	}
	writeJSON(w, http.StatusOK, api.DeriveResponse{
		Key:    key.Hex(),
		Engine: engine,
		Robust: req.Robust,
	})
}

// deriveOptions validates a derive request against the server limits.
func (s *Server) deriveOptions(req api.DeriveRequest) (chessperm.Mode, []chessperm.DeriveOption, error) {
	mode, err := chessperm.ParseMode(req.Mode)
	if err != nil {
		return 0, nil, err
	}
	engine, err := chessperm.ParseEngine(req.Engine)
	if err != nil {
		return 0, nil, err
	}
	if req.Plies < 0 || req.Plies > s.cfg.MaxPlies {
		return 0, nil, fmt.Errorf("plies must be between 0 and %d", s.cfg.MaxPlies)
	}
	if req.Iterations < 0 || req.Iterations > s.cfg.MaxIterations {
		return 0, nil, fmt.Errorf("iterations must be between 0 and %d", s.cfg.MaxIterations)
	}
	if len(req.Input) > s.cfg.MaxInputBytes {
		return 0, nil, fmt.Errorf("input exceeds %d bytes", s.cfg.MaxInputBytes)
	}

	opts := []chessperm.DeriveOption{
		chessperm.WithEngine(engine),
		chessperm.WithWorkers(s.cfg.Workers),
	}
	var salt []byte
	if req.SaltHex != "" {
		salt, err = hex.DecodeString(req.SaltHex)
		if err != nil {
			return 0, nil, fmt.Errorf("salt_hex: %w", err)
		}
		if len(salt) > s.cfg.MaxInputBytes {
			return 0, nil, fmt.Errorf("salt exceeds %d bytes", s.cfg.MaxInputBytes)
		}
		opts = append(opts, chessperm.WithSalt(salt))
	}

	iterations := 0
	if req.Robust {
		iterations = req.Iterations
		if iterations == 0 {
			iterations = chessperm.DefaultIterations
		}
	}
	if w := derivationWork(len(req.Input), len(salt), iterations); w > s.cfg.MaxWork {
		return 0, nil, fmt.Errorf("derivation needs %d block passes, limit is %d", w, s.cfg.MaxWork)
	}
	if req.Plies > 0 {
		opts = append(opts, chessperm.WithPlies(req.Plies))
	}
	if req.Robust {
		opts = append(opts, chessperm.WithRobust())
		if req.Iterations > 0 {
			opts = append(opts, chessperm.WithIterations(req.Iterations))
		}
	}
	return mode, opts, nil
}

// derivationWork is an upper bound on the block passes a derivation runs.
// No encoding produces more than eight bits per input byte, so the block
// count is bounded by the raw input and salt lengths.
func derivationWork(inputLen, saltLen, iterations int) int {
	bits := 8 * (inputLen + saltLen)
	blocks := max((bits+255)/256, 1)
	return blocks * (iterations + 1)
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	transcript := r.FormValue(api.FieldTranscript)
	message := r.FormValue(api.FieldMessage)
	if strings.TrimSpace(transcript) == "" {
		s.writeError(w, r, http.StatusBadRequest, "missing field "+api.FieldTranscript)
		return
	}
	if len(transcript) > s.cfg.MaxInputBytes {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s exceeds %d bytes", api.FieldTranscript, s.cfg.MaxInputBytes))
		return
	}

	cover, err := formFile(r, api.FieldCover)
	if errors.Is(err, http.ErrMissingFile) {
		cover, err = s.cover, nil
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	env, err := chessperm.Seal(transcript, message, cover, chessperm.WithWorkers(s.cfg.Workers))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	archive, err := env.Archive()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Debug("sealed message", "bytes", len(message), "archive_bytes", len(archive), "request_id", requestIDFrom(r.Context()))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+archiveName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	file, err := formFile(r, api.FieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		s.writeError(w, r, http.StatusBadRequest, "missing file "+api.FieldFile)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	key := strings.TrimSpace(r.FormValue(api.FieldPrivateKey))
	transcript := r.FormValue(api.FieldTranscript)
	if key == "" {
		s.writeError(w, r, http.StatusBadRequest, "missing field "+api.FieldPrivateKey)
		return
	}
	if len(transcript) > s.cfg.MaxInputBytes {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("%s exceeds %d bytes", api.FieldTranscript, s.cfg.MaxInputBytes))
		return
	}

	msg, err := chessperm.Open(file, key, transcript, chessperm.WithWorkers(s.cfg.Workers))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.DecryptResponse{Message: msg})
}

// parseForm parses a multipart body, writing the error reply on failure.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "request too large")
		} else {
			s.writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		}
		return false
	}
	return true
}

func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// fail maps err to a status code and writes the error reply.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err, "request_id", requestIDFrom(r.Context()))
		msg = "internal server error"
	}
	s.writeError(w, r, status, msg)
}

func statusFor(err error) int {
	switch {
	case isBodyTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, chessperm.ErrInvalidInput),
		errors.Is(err, chessperm.ErrDecryptionFailed),
		errors.Is(err, chessperm.ErrInvalidArchive),
		errors.Is(err, chessperm.ErrInvalidImage),
		errors.Is(err, chessperm.ErrImageTooSmall),
		errors.Is(err, chessperm.ErrNoHiddenData):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
