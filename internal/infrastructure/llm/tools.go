package llm

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const SuggestSubstitutesTool = "suggest_substitutes"

// GenerateSubstitutesTool 替代食材的工具定义，强制模型按固定结构输出
func GenerateSubstitutesTool(maxSubstitutes int) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        SuggestSubstitutesTool,
			Description: "Return cooking substitutes for a single ingredient.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"original": {
						Type:        jsonschema.String,
						Description: "The ingredient being replaced, exactly as given by the user.",
					},
					"substitutes": {
						Type:        jsonschema.Array,
						Description: "Between 1 and the requested number of substitutes, best first.",
						Items: &jsonschema.Definition{
							Type: jsonschema.Object,
							Properties: map[string]jsonschema.Definition{
								"name": {
									Type:        jsonschema.String,
									Description: "Substitute ingredient name.",
								},
								"reason": {
									Type:        jsonschema.String,
									Description: "One short sentence on why it works and how to adjust quantities.",
								},
							},
							Required: []string{"name", "reason"},
						},
					},
				},
				Required: []string{"original", "substitutes"},
			},
		},
	}
}
