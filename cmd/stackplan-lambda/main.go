// Command stackplan-lambda runs the composition pipeline behind an API
// Gateway proxy integration. The event carries a manifest; the response
// carries the composed graph and any requested artifacts.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/charmbracelet/log"

	"github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/manifest"
	"github.com/stackplan/stackplan/pkg/pipeline"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body     string `json:"body"` // manifest (raw or base64 if isBase64)
	IsBase64 bool   `json:"isBase64,omitempty"`
	Format   string `json:"format,omitempty"`  // manifest format, default json
	Pattern  string `json:"pattern,omitempty"` // architecture pattern, default ha-multiregion
	// Formats lists the artifacts to render; default dot+json. PNG and
	// SVG work too but dominate the response size.
	Formats []string `json:"formats,omitempty"`
}

// LambdaResponse is returned to the client.
type LambdaResponse struct {
	StatusCode       int                        `json:"statusCode"`
	Success          bool                       `json:"success"`
	ErrorCode        string                     `json:"error_code,omitempty"`
	Error            string                     `json:"error,omitempty"`
	ValidationErrors []manifest.ValidationError `json:"validation_errors,omitempty"`
	Pattern          string                     `json:"pattern,omitempty"`
	GraphHash        string                     `json:"graph_hash,omitempty"`
	Artifacts        map[string]string          `json:"artifacts,omitempty"` // format -> content (base64)
}

// APIGatewayResponse is the shape expected by API Gateway proxy
// integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// runner is shared across invocations of a warm lambda. No cache:
// invocations are stateless and the pipeline is fast enough.
var runner = pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))

func handler(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return fail(400, errors.ErrCodeInvalidInput, "invalid base64 body: "+err.Error()), nil
		}
		body = string(dec)
	}

	format := event.Format
	if format == "" {
		format = manifest.FormatJSON
	}
	formats := event.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatDOT, pipeline.FormatJSON}
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		ManifestData: []byte(body),
		Format:       format,
		Pattern:      event.Pattern,
		Formats:      formats,
	})
	if err != nil {
		status := 500
		switch errors.GetCode(err) {
		case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidFormat:
			status = 400
		case errors.ErrCodePatternNotFound:
			status = 404
		}
		return fail(status, errors.GetCode(err), errors.UserMessage(err)), nil
	}

	if len(result.ValidationErrors) > 0 {
		out := LambdaResponse{
			StatusCode:       422,
			Success:          false,
			ValidationErrors: result.ValidationErrors,
		}
		return wrap(out), nil
	}

	out := LambdaResponse{
		StatusCode: 200,
		Success:    true,
		Pattern:    result.Pattern,
		GraphHash:  result.GraphHash,
		Artifacts:  make(map[string]string, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		out.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
	}
	return wrap(out), nil
}

func fail(status int, code errors.Code, msg string) APIGatewayResponse {
	return wrap(LambdaResponse{
		StatusCode: status,
		Success:    false,
		ErrorCode:  string(code),
		Error:      msg,
	})
}

func wrap(out LambdaResponse) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(out)
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	lambda.Start(handler)
}
