package handler

import (
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// HTTPHandler serves the Lambda handler over plain HTTP for ENV=LOCAL runs.
func (h *Handler) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := httpToAPIGatewayEvent(r)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "read request body", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		response, err := h.Handle(r.Context(), event)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "handler error", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		for key, value := range response.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(response.StatusCode)
		if _, err := io.WriteString(w, response.Body); err != nil {
			h.logger.WarnContext(r.Context(), "write response", "error", err)
		}
	})
}

func httpToAPIGatewayEvent(r *http.Request) (events.APIGatewayProxyRequest, error) {
	headers := make(map[string]string)
	for key, values := range r.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	var body string
	if r.Body != nil {
		defer r.Body.Close()
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return events.APIGatewayProxyRequest{}, err
		}
		body = string(b)
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		QueryStringParameters: queryParams,
		Headers:               headers,
		Body:                  body,
	}, nil
}
