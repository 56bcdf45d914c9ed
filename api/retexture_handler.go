package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

// RetextureRequestBody mirrors models.RetextureRequest with optional flags,
// both of which default to true.
type RetextureRequestBody struct {
	ModelURL         string `json:"model_url"`
	TextStylePrompt  string `json:"text_style_prompt"`
	EnableOriginalUV *bool  `json:"enable_original_uv"`
	EnablePBR        *bool  `json:"enable_pbr"`
}

func orTrue(v *bool) bool {
	return v == nil || *v
}

// RetextureHandler forwards a retexture job and relays the service's answer.
func (h *Handler) RetextureHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Retexture API]")

	var body RetextureRequestBody
	if err := decodeJSON(r, &body); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	if body.ModelURL == "" || body.TextStylePrompt == "" {
		utils.RespondError(w, &logMessageBuilder, "model_url and text_style_prompt are required", http.StatusBadRequest)
		return
	}
	if h.Meshy == nil {
		utils.RespondError(w, &logMessageBuilder, "retexture service is not configured", http.StatusInternalServerError)
		return
	}

	req := models.RetextureRequest{
		ModelURL:         body.ModelURL,
		TextStylePrompt:  body.TextStylePrompt,
		EnableOriginalUV: orTrue(body.EnableOriginalUV),
		EnablePBR:        orTrue(body.EnablePBR),
	}
	status, resp, err := h.Meshy.Retexture(r.Context(), req)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Retexture call failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "retexture service unavailable", http.StatusBadGateway)
		return
	}

	job := &models.RetextureJob{Request: req, Response: resp, StatusCode: status}
	if id, err := h.Jobs.Record(r.Context(), job); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to record job: %v", err))
	} else {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Recorded job %s with status %d", id, status))
	}
	utils.RespondJSON(w, status, resp)
}
