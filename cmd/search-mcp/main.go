// Package main provides an MCP server that wraps the HTTP search
// service. This is a thin client that proxies requests to the HTTP
// server, the same pattern the memory service's MCP client uses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "0.1.0"

var httpClient = &http.Client{Timeout: 30 * time.Second}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Search service HTTP URL")
	flag.StringVar(baseURL, "u", "http://localhost:8080", "Search service HTTP URL (shorthand)")

	help := flag.Bool("help", false, "Show help")
	flag.BoolVar(help, "h", false, "Show help (shorthand)")

	flag.Parse()

	if *help {
		fmt.Fprintf(os.Stderr, `Package Search MCP Client v%s

MCP server that proxies requests to the package search HTTP service.
Requires search-server to be running.

Usage: search-mcp [OPTIONS]

Options:
  -u, --url URL    Search service URL (default: http://localhost:8080)
  -h, --help       Show this help

Claude Code MCP Configuration:
  "mcpServers": {
    "pkgsearch": {
      "command": "search-mcp",
      "args": ["-u", "http://localhost:8080"]
    }
  }

The HTTP server must be running:
  search-server -d ./data -p 8080
`, version)
		os.Exit(0)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pkgsearch-mcp",
		Version: version,
	}, nil)

	proxy := &proxyClient{baseURL: *baseURL}
	registerTools(server, proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

type proxyClient struct {
	baseURL string
}

func (p *proxyClient) get(endpoint string) (map[string]any, error) {
	resp, err := httpClient.Get(p.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respData))
	}

	var result map[string]any
	if err := json.Unmarshal(respData, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return result, nil
}

// SearchArgs are the arguments for the package_search tool.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"Search query: free text plus optional scope:value tag literals"`
	Page  int    `json:"page,omitempty" jsonschema:"1-based result page (default 1)"`
	Sort  string `json:"sort,omitempty" jsonschema:"Ordering: empty for relevance, or updated/created/popularity/likes/points/top"`
}

func registerTools(server *mcp.Server, proxy *proxyClient) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "package_search",
		Description: "Search the package corpus by free text and tags (e.g. \"sdk:dart http client\"). Returns matching package ids ranked by relevance or the requested ordering.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
		params := url.Values{}
		params.Set("q", args.Query)
		if args.Page > 0 {
			params.Set("page", strconv.Itoa(args.Page))
		}
		if args.Sort != "" {
			params.Set("sort", args.Sort)
		}

		result, err := proxy.get("/search?" + params.Encode())
		if err != nil {
			return nil, nil, err
		}
		return formatSearchResult(result)
	})
}

func formatSearchResult(result map[string]any) (*mcp.CallToolResult, any, error) {
	docIDs, _ := result["doc_ids"].([]any)
	total, _ := result["total_hits"].(float64)

	var text string
	if len(docIDs) == 0 {
		text = "No matching packages."
	} else {
		text = fmt.Sprintf("Found %.0f matching packages", total)
		if int(total) > len(docIDs) {
			text += fmt.Sprintf(" (showing %d)", len(docIDs))
		}
		text += ":\n"
		for i, id := range docIDs {
			text += fmt.Sprintf("\n%d. %v", i+1, id)
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, result, nil
}
