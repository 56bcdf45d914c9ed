package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RetextureRequest is the body forwarded to the texturing service.
type RetextureRequest struct {
	ModelURL         string `bson:"model_url" json:"model_url"`
	TextStylePrompt  string `bson:"text_style_prompt" json:"text_style_prompt"`
	EnableOriginalUV bool   `bson:"enable_original_uv" json:"enable_original_uv"`
	EnablePBR        bool   `bson:"enable_pbr" json:"enable_pbr"`
}

// RetextureJob records one proxied call and what came back.
type RetextureJob struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Request    RetextureRequest       `bson:"request" json:"request"`
	Response   map[string]interface{} `bson:"response" json:"response"`
	StatusCode int                    `bson:"status_code" json:"status_code"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}
