package apidocs

import (
	"context"
	_ "embed"
	"fmt"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiYAML []byte

// Spec 读取内置的 OpenAPI 文档，校验后转为 JSON
func Spec(ctx context.Context) (*openapi3.T, []byte, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, nil, fmt.Errorf("load openapi document: %w", err)
	}

	if err = doc.Validate(ctx); err != nil {
		return nil, nil, fmt.Errorf("validate openapi document: %w", err)
	}

	specJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	return doc, specJSON, nil
}
