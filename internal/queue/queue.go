package queue

import (
	"encoding/json"
	"errors"

	"skipgram-query/internal/model"
)

// PredictRequest is the message body consumed from the predict subject.
type PredictRequest struct {
	Word string `json:"word"`
	TopK int    `json:"top_k"`
}

// PredictResponse is the reply body. Error is set instead of Predictions
// when evaluation fails.
type PredictResponse struct {
	Word        string             `json:"word"`
	Predictions []model.Prediction `json:"predictions,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Respond evaluates one raw request body and builds the reply. Split from
// the NATS subscription so it can be tested without a broker.
func Respond(eval model.Evaluator, defaultK int, data []byte) PredictResponse {
	var req PredictRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return PredictResponse{Error: "invalid request: " + err.Error()}
	}
	if req.Word == "" {
		return PredictResponse{Error: "word required"}
	}
	if req.TopK <= 0 {
		req.TopK = defaultK
	}

	preds, err := eval.Evaluate(req.Word, req.TopK)
	if err != nil {
		resp := PredictResponse{Word: req.Word}
		switch {
		case errors.Is(err, model.ErrUnknownWord):
			resp.Error = "unknown word"
		case errors.Is(err, model.ErrInvalidInput):
			resp.Error = "invalid input: " + err.Error()
		default:
			resp.Error = err.Error()
		}
		return resp
	}
	return PredictResponse{Word: req.Word, Predictions: preds}
}
