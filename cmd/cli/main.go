package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"citizenhub/internal/officials"
	"citizenhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type itemsResponse struct {
	Total int                   `json:"total"`
	Items []models.LegislatorDB `json:"items"`
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	global := flag.NewFlagSet("citizenhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	asJSON := global.Bool("json", false, "print raw JSON")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 15 * time.Second}
	c := &cli{client: client, baseURL: strings.TrimRight(*baseURL, "/"), tokenPath: *tokenPath, json: *asJSON}

	switch args[0] {
	case "lookup":
		c.lookup(ctx, args[1:])
	case "local":
		c.local(ctx, args[1:])
	case "list":
		c.list(ctx, args[1:])
	case "get":
		c.get(ctx, args[1:])
	case "login":
		c.login(ctx, args[1:])
	case "logout":
		if err := clearToken(c.tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	case "sync":
		c.sync(ctx, args[1:])
	case "watch":
		c.watch()
	default:
		printUsage()
		os.Exit(1)
	}
}

type cli struct {
	client    *http.Client
	baseURL   string
	tokenPath string
	json      bool
}

func (c *cli) lookup(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	address := fs.String("address", "", "street address")
	_ = fs.Parse(args)
	if strings.TrimSpace(*address) == "" {
		log.Fatal("usage: citizenhub lookup -address \"1 Dr Carlton B Goodlett Pl, San Francisco, CA\"")
	}

	var resp itemsResponse
	endpoint := c.baseURL + "/legislators/lookup?address=" + url.QueryEscape(*address)
	if err := doJSON(ctx, c.client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
		log.Fatalf("lookup failed: %v", err)
	}
	c.printItems(resp.Items)
}

func (c *cli) local(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("local", flag.ExitOnError)
	city := fs.String("city", "", "bundled city, e.g. \"San Francisco, CA\"")
	offline := fs.Bool("offline", false, "read the snapshots built into this binary instead of the API")
	_ = fs.Parse(args)
	if strings.TrimSpace(*city) == "" {
		log.Fatal("usage: citizenhub local -city \"San Francisco, CA\" [-offline]")
	}

	if *offline {
		bundle := officials.NewBundleSource("", officials.DefaultOverrides())
		ls, err := bundle.Legislators(ctx, *city)
		if err != nil {
			log.Fatalf("local lookup failed: %v", err)
		}
		c.printItems(models.FlattenAll(ls))
		return
	}

	var resp itemsResponse
	endpoint := c.baseURL + "/legislators/local?city=" + url.QueryEscape(*city)
	if err := doJSON(ctx, c.client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
		log.Fatalf("local lookup failed: %v", err)
	}
	c.printItems(resp.Items)
}

func (c *cli) list(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "name or office search")
	state := fs.String("state", "", "state name or postal code")
	party := fs.String("party", "", "party")
	kind := fs.String("office", "", "office kind, e.g. senator")
	limit := fs.Int("limit", 20, "page size")
	offset := fs.Int("offset", 0, "offset")
	_ = fs.Parse(args)

	u, err := url.Parse(c.baseURL + "/legislators")
	if err != nil {
		log.Fatalf("invalid base url: %v", err)
	}
	qv := u.Query()
	for k, v := range map[string]string{"q": *query, "state": *state, "party": *party, "office_kind": *kind} {
		if v != "" {
			qv.Set(k, v)
		}
	}
	qv.Set("limit", strconv.Itoa(*limit))
	qv.Set("offset", strconv.Itoa(*offset))
	u.RawQuery = qv.Encode()

	var resp itemsResponse
	if err := doJSON(ctx, c.client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
		log.Fatalf("list failed: %v", err)
	}
	if !c.json {
		fmt.Printf("%d stored legislators\n", resp.Total)
	}
	c.printItems(resp.Items)
}

func (c *cli) get(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.Int64("id", 0, "legislator id")
	_ = fs.Parse(args)
	if *id <= 0 {
		log.Fatal("usage: citizenhub get -id 54690")
	}

	var l models.LegislatorDB
	endpoint := fmt.Sprintf("%s/legislators/%d", c.baseURL, *id)
	if err := doJSON(ctx, c.client, http.MethodGet, endpoint, "", nil, &l); err != nil {
		log.Fatalf("get failed: %v", err)
	}
	printJSON(l)
}

func (c *cli) login(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	password := fs.String("password", os.Getenv("CITIZENHUB_ADMIN_PASSWORD"), "operator password")
	_ = fs.Parse(args)
	if *password == "" {
		log.Fatal("password is required")
	}

	var resp tokenData
	payload := map[string]string{"password": *password}
	if err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/auth/token", "", payload, &resp); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	if err := saveToken(c.tokenPath, resp); err != nil {
		log.Fatalf("save token: %v", err)
	}
	fmt.Printf("logged in until %s\n", resp.ExpiresAt)
}

func (c *cli) sync(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	var req officials.SyncRequest
	fs.Var((*stringList)(&req.Addresses), "address", "address to refresh from the upstream API (repeatable)")
	fs.Var((*stringList)(&req.Cities), "city", "bundled city to load (repeatable)")
	_ = fs.Parse(args)
	if len(req.Addresses) == 0 && len(req.Cities) == 0 {
		log.Fatal("usage: citizenhub sync [-address ADDR]... [-city CITY]...")
	}

	var report officials.SyncReport
	if err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/admin/sync", mustToken(c.tokenPath), req, &report); err != nil {
		log.Fatalf("sync failed: %v", err)
	}
	if c.json {
		printJSON(report)
		return
	}
	fmt.Printf("run %s\n", report.RunID)
	for _, r := range report.Results {
		if r.Error != "" {
			fmt.Printf("  %-7s %-40q error: %s\n", r.Source, r.Key, r.Error)
			continue
		}
		fmt.Printf("  %-7s %-40q %d legislators\n", r.Source, r.Key, r.Count)
	}
}

func (c *cli) watch() {
	wsURL, err := websocketURL(c.baseURL, "/ws")
	if err != nil {
		log.Fatalf("invalid base url: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("[watch] %v", err)
		}
		fmt.Print(string(msg))
	}
}

func (c *cli) printItems(items []models.LegislatorDB) {
	if c.json {
		printJSON(items)
		return
	}
	for _, l := range items {
		fmt.Printf("%-8d %-28s %-12s %s\n", l.ID, l.Name, l.Party, l.OfficeTitle)
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %d %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.citizenhub-token.json"
	}
	return filepath.Join(home, ".citizenhub", "token.json")
}

func saveToken(path string, td tokenData) error {
	if td.Token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(td, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mustToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("token not found, run login first: %v", err)
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil || strings.TrimSpace(td.Token) == "" {
		log.Fatal("token file unreadable, run login again")
	}
	return strings.TrimSpace(td.Token)
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: u.Host, Path: path}).String(), nil
}

func printUsage() {
	fmt.Println("citizenhub [-api URL] [-json] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  lookup -address ADDR       legislators for an address (upstream API)")
	fmt.Println("  local -city CITY [-offline] legislators from a bundled snapshot")
	fmt.Println("  list [-state S] [-party P] [-office K] [-q TEXT]")
	fmt.Println("  get -id ID")
	fmt.Println("  login -password PW | logout")
	fmt.Println("  sync [-address ADDR]... [-city CITY]...")
	fmt.Println("  watch                      stream sync events over websocket")
}
