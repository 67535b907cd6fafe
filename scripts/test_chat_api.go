package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	userToken := os.Getenv("USER_TOKEN")

	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	color.Yellow("\n[FREE] 1. Assistant Health")
	resp, body, err := sendRequest("GET", "/free/health", "", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[FREE] 2. Guest Chelsea Question")
	resp, body, err = sendRequest("POST", "/free/message", "", map[string]string{
		"message": "Who is the current Chelsea manager?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[FREE] 3. Guest Out-of-Scope Question")
	resp, body, err = sendRequest("POST", "/free/message", "", map[string]string{
		"message": "What is the best pasta recipe?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	if userToken == "" {
		color.Yellow("\nUSER_TOKEN not set, skipping authenticated endpoints")
		return
	}

	color.Yellow("\n[USER] 4. Authenticated Frontend Question")
	resp, body, err = sendRequest("POST", "/users/chat/message", userToken, map[string]string{
		"message": "How do I animate a React component with GSAP?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[USER] 5. Chat History")
	resp, body, err = sendRequest("GET", "/users/chat/history?page=1&limit=5", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[USER] 6. Chat Stats")
	resp, body, err = sendRequest("GET", "/users/chat/stats", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
}
