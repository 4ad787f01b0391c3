package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"
)

// 手动验证 /substitutes/stream：先登录拿令牌，再按行打印 SSE
func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "api base url")
	username := flag.String("user", "alice", "username")
	password := flag.String("password", "secret123", "password")
	ingredient := flag.String("ingredient", "butter", "ingredient to replace")
	flag.Parse()

	token, err := login(*baseURL, *username, *password)
	if err != nil {
		fmt.Println("登录失败:", err)
		return
	}

	jsonData, _ := json.Marshal(map[string]string{"ingredient": *ingredient})

	// 1. 发起 POST 请求
	req, _ := http.NewRequest(http.MethodPost, *baseURL+"/substitutes/stream", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream") // 告诉服务器我要流
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("请求失败:", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Println("请求失败, status:", resp.Status)
		return
	}

	fmt.Println("✅ 连接建立，开始接收流...")
	fmt.Println("--------------------------------")

	// 2. 使用 Scanner 按行读取 (SSE 是按行传输的)
	scanner := bufio.NewScanner(resp.Body)
	var fullBuffer strings.Builder
	event := ""

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fmt.Printf("[收到原始数据] %s\n", line)

		// 3. 解析 SSE 协议 (格式是 "event:xxx" 和 "data:xxx")
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			content := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			switch event {
			case "delta":
				fullBuffer.WriteString(content)
			case "done":
				fmt.Println("\n🏁 流传输结束:", content)
			case "error":
				fmt.Println("\n❌ 服务端错误:", content)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Println("读取流错误:", err)
	}

	fmt.Println("--------------------------------")
	fmt.Println("📝 拼接的片段:", fullBuffer.String())
}

func login(baseURL, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}
	if env.Code != 0 {
		return "", fmt.Errorf("%s", env.Msg)
	}
	return env.Data.Token, nil
}
