package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leon37/Hamhama/internal/model"
)

// ParseSubstitutes 解析模型输出。模型偶尔会用 ``` 包裹 JSON，先剥掉
func ParseSubstitutes(raw string) (*model.SubstituteResult, error) {
	cleaned := StripCodeFence(raw)

	var result model.SubstituteResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("decode substitutes: %w", err)
	}

	kept := result.Substitutes[:0]
	for _, s := range result.Substitutes {
		s.Name = strings.TrimSpace(s.Name)
		s.Reason = strings.TrimSpace(s.Reason)
		if s.Name != "" {
			kept = append(kept, s)
		}
	}
	result.Substitutes = kept
	result.Original = strings.TrimSpace(result.Original)

	if len(result.Substitutes) == 0 {
		return nil, fmt.Errorf("decode substitutes: empty substitute list")
	}
	return &result, nil
}

// StripCodeFence 去掉 markdown 代码块标记
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 去掉语言标记，例如 ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
