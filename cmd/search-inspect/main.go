// Package main provides a CLI tool to inspect a running search service
// and issue ad-hoc queries against it, in the style of the memory
// service's inspector client.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Search server URL")
	flag.StringVar(serverURL, "u", "http://localhost:8080", "Search server URL (shorthand)")

	health := flag.Bool("health", false, "Show index health and field stats")
	query := flag.String("query", "", "Run a search query")
	page := flag.Int("page", 1, "Result page for --query")
	sort := flag.String("sort", "", "Ordering for --query (empty for relevance)")
	jsonOutput := flag.Bool("json", false, "Output as JSON")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Search Inspector - Query and inspect a running search service

Usage: search-inspect [OPTIONS] COMMAND

Commands:
  --health                Show index health and field stats
  --query "text"          Run a search query

Options:
  -u, --url URL           Server URL (default: http://localhost:8080)
  --page N                Result page (default: 1)
  --sort ORDERING         Ordering: updated/created/popularity/likes/points/top
  --json                  Output as JSON

Examples:
  search-inspect --health
  search-inspect --query "sdk:dart http client"
  search-inspect --query "widget" --sort updated --page 2
`)
	}

	flag.Parse()

	if !*health && *query == "" {
		flag.Usage()
		os.Exit(1)
	}

	client := &apiClient{baseURL: *serverURL}

	if *health {
		client.showHealth(*jsonOutput)
	}
	if *query != "" {
		client.search(*query, *page, *sort, *jsonOutput)
	}
}

type apiClient struct {
	baseURL string
}

func (c *apiClient) showHealth(asJSON bool) {
	data, err := c.get("/health")
	if err != nil {
		fatal("Error: %v", err)
	}

	if asJSON {
		fmt.Println(string(data))
		return
	}

	var result struct {
		Healthy       bool   `json:"healthy"`
		Status        string `json:"status"`
		IndexReady    bool   `json:"index_ready"`
		DocumentCount int    `json:"document_count"`
		UptimeMs      int64  `json:"uptime_ms"`
		RequestCount  uint64 `json:"request_count"`
		Fields        []struct {
			Name          string `json:"name"`
			TokenCount    int    `json:"token_count"`
			DocumentCount int    `json:"document_count"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		fatal("Error parsing response: %v", err)
	}

	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Index:      %s\n", readyLabel(result.IndexReady))
	fmt.Printf("Documents:  %d\n", result.DocumentCount)
	fmt.Printf("Uptime:     %s\n", time.Duration(result.UptimeMs)*time.Millisecond)
	fmt.Printf("Requests:   %d\n", result.RequestCount)
	if len(result.Fields) > 0 {
		fmt.Println("\nFields:")
		for _, f := range result.Fields {
			fmt.Printf("  %-14s tokens=%-8d documents=%d\n", f.Name, f.TokenCount, f.DocumentCount)
		}
	}
}

func (c *apiClient) search(query string, page int, sort string, asJSON bool) {
	params := url.Values{}
	params.Set("q", query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if sort != "" {
		params.Set("sort", sort)
	}

	data, err := c.get("/search?" + params.Encode())
	if err != nil {
		fatal("Search failed: %v", err)
	}

	if asJSON {
		fmt.Println(string(data))
		return
	}

	var result struct {
		TotalHits int      `json:"total_hits"`
		DocIDs    []string `json:"doc_ids"`
		NextPage  string   `json:"next_page"`
		PrevPage  string   `json:"prev_page"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		fatal("Error parsing response: %v", err)
	}

	if len(result.DocIDs) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Found %d results for %q (page %d):\n\n", result.TotalHits, query, page)
	for i, id := range result.DocIDs {
		fmt.Printf("%d. %s\n", i+1, id)
	}
	if result.NextPage != "" {
		fmt.Printf("\nNext page: %s\n", result.NextPage)
	}
	if result.PrevPage != "" {
		fmt.Printf("Prev page: %s\n", result.PrevPage)
	}
}

func (c *apiClient) get(path string) ([]byte, error) {
	resp, err := httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func readyLabel(ready bool) string {
	if ready {
		return "ready"
	}
	return "not built"
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
