package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fpt/relay/pkg/api"
	"github.com/fpt/relay/pkg/backend"
	"github.com/fpt/relay/pkg/extract"
	"github.com/fpt/relay/pkg/message"
)

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req api.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "Invalid JSON in request body")
		return
	}

	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "messages must not be empty")
		return
	}
	if req.Stream {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "Streaming is not supported")
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "model is required")
		return
	}
	if !s.catalog.Contains(req.Model) {
		writeError(w, http.StatusNotFound, "invalid_request_error", fmt.Sprintf("The model '%s' does not exist", req.Model))
		return
	}

	if cached, ok := s.cache.Get(&req); ok {
		s.logger.Info("Cache hit", "model", req.Model)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	prompt, system := message.ToPrompt(req.Messages)

	jsonMode := req.ResponseFormat.IsJSON()
	if jsonMode {
		instruction := extract.ModeInstruction
		if rf := req.ResponseFormat; rf.Type == "json_schema" && rf.JSONSchema != nil && len(rf.JSONSchema.Schema) > 0 {
			si, err := extract.SchemaInstructionJSON(rf.JSONSchema.Schema)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_error", "response_format.json_schema.schema is not a valid JSON Schema")
				return
			}
			instruction = si
		}
		if system != "" {
			system = instruction + "\n\n" + system
		} else {
			system = instruction
		}
	}

	breq := backend.Request{
		Model:       req.Model,
		System:      system,
		Prompt:      prompt,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	if req.MaxTokens != nil {
		breq.MaxTokens = *req.MaxTokens
	}

	completion, err := s.completer.Complete(r.Context(), breq)
	if err != nil {
		s.logger.Error("Backend completion failed", "error", err, "model", req.Model)
		writeError(w, http.StatusBadGateway, "api_error", "Upstream completion failed")
		return
	}

	text := message.FilterContent(completion.Text)

	if jsonMode {
		res := extract.ExtractResult(text)
		if res.OK {
			s.logger.Info("Extracted JSON response", "strategy", string(res.Strategy), "original_len", res.OriginalLen, "extracted_len", res.ExtractedLen)
			text = res.JSON
		} else {
			diag := extract.Diagnose(text)
			s.logger.Warn("Could not extract JSON from response",
				"object_balance", diag.ObjectBalance,
				"array_balance", diag.ArrayBalance,
				"has_fence", diag.HasFence,
				"length", diag.Length)
			// The cascade already failed; only the fallback choice remains.
			if s.cfg.Server.StrictJSON {
				text = "[]"
			}
		}
	}

	usage := &api.Usage{
		PromptTokens:     completion.Usage.InputTokens,
		CompletionTokens: completion.Usage.OutputTokens,
		TotalTokens:      completion.Usage.TotalTokens,
	}
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		usage.PromptTokens = message.EstimateTokens(system + prompt)
		usage.CompletionTokens = message.EstimateTokens(text)
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	resp := &api.ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []api.Choice{
			{
				Index: 0,
				Message: message.Message{
					Role:    message.RoleAssistant,
					Content: text,
				},
				FinishReason: completion.FinishReason,
			},
		},
		Usage: usage,
	}

	s.cache.Put(&req, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := s.catalog.Models()
	list := api.ModelList{
		Object: "list",
		Data:   make([]api.Model, 0, len(models)),
	}
	for _, id := range models {
		list.Data = append(list.Data, api.Model{
			ID:      id,
			Object:  "model",
			OwnedBy: "anthropic",
		})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	n := s.cache.Clear()
	s.logger.Info("Cache cleared", "entries_removed", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Cache cleared",
		"entries_removed": n,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": s.cfg.Backend.Backend,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, msg string) {
	writeJSON(w, status, api.ErrorResponse{
		Error: api.Error{
			Message: msg,
			Type:    errType,
		},
	})
}
