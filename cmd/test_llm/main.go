package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/leon37/Hamhama/internal/config"
	"github.com/leon37/Hamhama/internal/infrastructure/llm"
)

// 手动验证大模型的食材替代输出，需要配置 llm.api_key
func main() {
	conf, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("配置加载成功")
	if conf.LLM.APIKey == "" {
		log.Fatal("请设置 llm.api_key 或环境变量 HAMHAMA_LLM_API_KEY")
	}
	llmClient := llm.NewOpenAIClient(conf.LLM.APIKey, conf.LLM.BaseURL, conf.LLM.Model)

	ctx := context.Background()
	testCases := []string{
		"butter",
		"buttermilk",
		"eggs",
		"fish sauce",
	}

	for _, ingredient := range testCases {
		fmt.Printf("\n-------- 测试: %s --------\n", ingredient)

		start := time.Now()
		streamCh, err := llmClient.StreamSubstitutes(ctx, ingredient)
		if err != nil {
			log.Printf("❌ 调用失败: %v\n", err)
			continue
		}
		var full strings.Builder
		for fragment := range streamCh {
			full.WriteString(fragment)
		}
		duration := time.Since(start)

		result, err := llm.ParseSubstitutes(full.String())
		if err != nil {
			log.Printf("❌ 输出无法解析: %v\n原始输出: %s\n", err, full.String())
			continue
		}

		fmt.Printf("✅ 调用成功 (耗时 %v)\n", duration)
		for _, s := range result.Substitutes {
			fmt.Printf("  - %s: %s\n", s.Name, s.Reason)
		}
	}
}
