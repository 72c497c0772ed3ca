package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/kaspatech/kaspa-faucet/config"
	"github.com/kaspatech/kaspa-faucet/internal/faucet"
	klog "github.com/kaspatech/kaspa-faucet/internal/log"
	"github.com/kaspatech/kaspa-faucet/internal/ratelimit"
	"github.com/kaspatech/kaspa-faucet/pkg/crypto"
	"github.com/kaspatech/kaspa-faucet/pkg/tx"
	"github.com/kaspatech/kaspa-faucet/pkg/types"
)

// fakeNode is an in-memory NodeClient for API tests.
type fakeNode struct {
	mu         sync.Mutex
	utxos      []types.UTXO
	balance    uint64
	utxosErr   error
	balanceErr error
	submitted  int
}

func (n *fakeNode) GetUTXOsByAddress(ctx context.Context, address string) ([]types.UTXO, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.utxosErr != nil {
		return nil, n.utxosErr
	}
	out := make([]types.UTXO, len(n.utxos))
	copy(out, n.utxos)
	return out, nil
}

func (n *fakeNode) GetBalanceByAddress(ctx context.Context, address string) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.balanceErr != nil {
		return 0, n.balanceErr
	}
	return n.balance, nil
}

func (n *fakeNode) GetVirtualDAAScore(ctx context.Context) (uint64, error) {
	return 1_000_000, nil
}

func (n *fakeNode) SubmitTransaction(ctx context.Context, txn *tx.Transaction) (types.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted++
	return txn.ID(), nil
}

func (n *fakeNode) submittedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.submitted
}

// testEnv holds all components for an API test.
type testEnv struct {
	server     *Server
	faucet     *faucet.Faucet
	node       *fakeNode
	faucetAddr types.Address
	url        string
}

func setupTestEnv(t *testing.T, apiCfg ...config.APIConfig) *testEnv {
	t.Helper()
	klog.Init("error", false, "")

	prev := types.GetAddressHRP()
	types.SetAddressHRP(types.TestnetHRP)
	t.Cleanup(func() { types.SetAddressHRP(prev) })

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := faucet.NewKeySigner(key)
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	node := &fakeNode{balance: 10_000 * config.SompiPerKas}
	script := types.PayToAddressScript(signer.Address())
	for i := 0; i < 4; i++ {
		node.utxos = append(node.utxos, types.UTXO{
			Outpoint:        types.Outpoint{TxID: types.Hash{byte(i + 1)}, Index: uint32(i)},
			Amount:          500_000_000,
			ScriptPublicKey: script,
			BlockDAAScore:   1,
		})
	}

	cfg := faucet.Config{
		Amount:           100_000_000,
		FeePerInput:      2000,
		DustThreshold:    1000,
		CoinbaseMaturity: 100,
		NodeTimeout:      time.Second,
		ReserveTTL:       time.Minute,
	}
	f := faucet.New(cfg, node, signer, ratelimit.NewGuard(time.Hour), nil)
	t.Cleanup(f.Close)

	srv := New("127.0.0.1:0", f, apiCfg...)
	if err := srv.Start(); err != nil {
		t.Fatalf("start api: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{
		server:     srv,
		faucet:     f,
		node:       node,
		faucetAddr: signer.Address(),
		url:        fmt.Sprintf("http://%s", srv.Addr()),
	}
}

func claimAddress(t *testing.T) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr, err := key.Address()
	if err != nil {
		t.Fatalf("derive address: %v", err)
	}
	return addr.String()
}

// postClaim sends a claim and returns the raw response. An empty
// forwardedFor omits the X-Forwarded-For header.
func postClaim(t *testing.T, env *testEnv, address, forwardedFor string) (int, http.Header, []byte) {
	t.Helper()
	body, err := json.Marshal(claimRequest{Address: address})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return postRaw(t, env, body, forwardedFor)
}

func postRaw(t *testing.T, env *testEnv, body []byte, forwardedFor string) (int, http.Header, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, env.url+"/claim", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post /claim: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, resp.Header, data
}

func getStatus(t *testing.T, env *testEnv) (int, statusResponse) {
	t.Helper()
	resp, err := http.Get(env.url + "/status")
	if err != nil {
		t.Fatalf("get /status: %v", err)
	}
	defer resp.Body.Close()
	var st statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return resp.StatusCode, st
}

// ── Tests ───────────────────────────────────────────────────────────────

func TestAPI_Status(t *testing.T) {
	env := setupTestEnv(t)

	code, st := getStatus(t, env)
	if code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", code, http.StatusOK)
	}
	if !st.Active {
		t.Error("active = false, want true")
	}
	if st.FaucetAddress != env.faucetAddr.String() {
		t.Errorf("faucetAddress = %q, want %q", st.FaucetAddress, env.faucetAddr.String())
	}
	if st.BalanceKas != "10000.00000000" {
		t.Errorf("balanceKas = %q, want %q", st.BalanceKas, "10000.00000000")
	}
	if st.NextClaimSeconds != 3600 {
		t.Errorf("nextClaimSeconds = %d, want 3600", st.NextClaimSeconds)
	}
}

func TestAPI_Status_NodeDown(t *testing.T) {
	env := setupTestEnv(t)
	env.node.mu.Lock()
	env.node.balanceErr = fmt.Errorf("connection refused")
	env.node.mu.Unlock()

	code, st := getStatus(t, env)
	if code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", code, http.StatusOK)
	}
	if st.Active {
		t.Error("active = true, want false")
	}
	if st.BalanceKas != "0.00000000" {
		t.Errorf("balanceKas = %q, want %q", st.BalanceKas, "0.00000000")
	}
}

func TestAPI_Claim(t *testing.T) {
	env := setupTestEnv(t)

	code, _, data := postClaim(t, env, claimAddress(t), "")
	if code != http.StatusOK {
		t.Fatalf("status code = %d, want %d: %s", code, http.StatusOK, data)
	}

	var res claimResponse
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.AmountKas != "1.00000000" {
		t.Errorf("amountKas = %q, want %q", res.AmountKas, "1.00000000")
	}
	if res.NextClaimSeconds != 3600 {
		t.Errorf("nextClaimSeconds = %d, want 3600", res.NextClaimSeconds)
	}
	if len(res.TransactionID) != 64 {
		t.Fatalf("transactionId length = %d, want 64", len(res.TransactionID))
	}
	if _, err := hex.DecodeString(res.TransactionID); err != nil {
		t.Errorf("transactionId is not hex: %v", err)
	}
	if got := env.node.submittedCount(); got != 1 {
		t.Errorf("submitted transactions = %d, want 1", got)
	}
}

func TestAPI_Claim_InvalidAddress(t *testing.T) {
	env := setupTestEnv(t)

	code, _, data := postClaim(t, env, "not-an-address", "")
	if code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "invalid address" {
		t.Errorf("error = %q, want %q", resp.Error, "invalid address")
	}
}

func TestAPI_Claim_RateLimited(t *testing.T) {
	env := setupTestEnv(t)

	code, _, _ := postClaim(t, env, claimAddress(t), "")
	if code != http.StatusOK {
		t.Fatalf("first claim status = %d, want %d", code, http.StatusOK)
	}

	code, header, data := postClaim(t, env, claimAddress(t), "")
	if code != http.StatusTooManyRequests {
		t.Fatalf("second claim status = %d, want %d", code, http.StatusTooManyRequests)
	}

	retry := header.Get("Retry-After")
	if retry == "" {
		t.Fatal("Retry-After header missing")
	}
	secs, err := strconv.Atoi(retry)
	if err != nil {
		t.Fatalf("Retry-After %q is not an integer: %v", retry, err)
	}
	if secs < 1 || secs > 3600 {
		t.Errorf("Retry-After = %d, want within (0, 3600]", secs)
	}

	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "claim interval not elapsed" {
		t.Errorf("error = %q, want %q", resp.Error, "claim interval not elapsed")
	}
}

func TestAPI_Claim_MalformedJSON(t *testing.T) {
	env := setupTestEnv(t)

	code, _, data := postRaw(t, env, []byte("{not json"), "")
	if code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "invalid JSON" {
		t.Errorf("error = %q, want %q", resp.Error, "invalid JSON")
	}
}

func TestAPI_Claim_MissingAddress(t *testing.T) {
	env := setupTestEnv(t)

	code, _, data := postRaw(t, env, []byte(`{}`), "")
	if code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "address is required" {
		t.Errorf("error = %q, want %q", resp.Error, "address is required")
	}
}

func TestAPI_Claim_BodyTooLarge(t *testing.T) {
	env := setupTestEnv(t)

	code, _, _ := postRaw(t, env, bytes.Repeat([]byte("a"), maxBodySize+1), "")
	if code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status code = %d, want %d", code, http.StatusRequestEntityTooLarge)
	}
}

func TestAPI_Claim_NodeFailureIsGeneric(t *testing.T) {
	env := setupTestEnv(t)
	env.node.mu.Lock()
	env.node.utxosErr = fmt.Errorf("dial tcp 127.0.0.1:16210: connection refused")
	env.node.mu.Unlock()

	code, _, data := postClaim(t, env, claimAddress(t), "")
	if code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", code, http.StatusInternalServerError)
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "internal error" {
		t.Errorf("error = %q, want %q (node details must not leak)", resp.Error, "internal error")
	}
}

func TestAPI_Claim_InsufficientFundsIsGeneric(t *testing.T) {
	env := setupTestEnv(t)
	env.node.mu.Lock()
	env.node.utxos = nil
	env.node.mu.Unlock()

	code, _, data := postClaim(t, env, claimAddress(t), "")
	if code != http.StatusInternalServerError {
		t.Fatalf("status code = %d, want %d", code, http.StatusInternalServerError)
	}
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "internal error" {
		t.Errorf("error = %q, want %q", resp.Error, "internal error")
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Get(env.url + "/claim")
	if err != nil {
		t.Fatalf("get /claim: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /claim status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}

	resp, err = http.Post(env.url+"/status", "application/json", nil)
	if err != nil {
		t.Fatalf("post /status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /status status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestAPI_UnknownPath(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Get(env.url + "/nope")
	if err != nil {
		t.Fatalf("get /nope: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAPI_IPFilterBlocks(t *testing.T) {
	env := setupTestEnv(t, config.APIConfig{AllowedIPs: []string{"10.0.0.0/8"}})

	resp, err := http.Get(env.url + "/status")
	if err != nil {
		t.Fatalf("get /status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status code = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestAPI_IPFilterAllowsBareIP(t *testing.T) {
	env := setupTestEnv(t, config.APIConfig{AllowedIPs: []string{"127.0.0.1"}})

	resp, err := http.Get(env.url + "/status")
	if err != nil {
		t.Fatalf("get /status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status code = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestAPI_CORSWildcard(t *testing.T) {
	env := setupTestEnv(t, config.APIConfig{CORSOrigins: []string{"*"}})

	req, err := http.NewRequest(http.MethodOptions, env.url+"/claim", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://faucet.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options /claim: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}
}

func TestAPI_CORSExactOrigin(t *testing.T) {
	env := setupTestEnv(t, config.APIConfig{CORSOrigins: []string{"https://faucet.example"}})

	req, err := http.NewRequest(http.MethodGet, env.url+"/status", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://faucet.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get /status: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://faucet.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://faucet.example")
	}

	req, err = http.NewRequest(http.MethodGet, env.url+"/status", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get /status: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestAPI_TrustProxyUsesForwardedFor(t *testing.T) {
	env := setupTestEnv(t, config.APIConfig{TrustProxy: true})

	code, _, _ := postClaim(t, env, claimAddress(t), "203.0.113.7")
	if code != http.StatusOK {
		t.Fatalf("first claim status = %d, want %d", code, http.StatusOK)
	}

	// A different forwarded client is a different identity.
	code, _, _ = postClaim(t, env, claimAddress(t), "203.0.113.8, 10.0.0.1")
	if code != http.StatusOK {
		t.Fatalf("second claim status = %d, want %d", code, http.StatusOK)
	}

	// The same forwarded client is still limited.
	code, _, _ = postClaim(t, env, claimAddress(t), "203.0.113.7")
	if code != http.StatusTooManyRequests {
		t.Fatalf("repeat claim status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestAPI_ForwardedForIgnoredByDefault(t *testing.T) {
	env := setupTestEnv(t)

	code, _, _ := postClaim(t, env, claimAddress(t), "203.0.113.7")
	if code != http.StatusOK {
		t.Fatalf("first claim status = %d, want %d", code, http.StatusOK)
	}

	// Spoofed headers do not mint fresh identities; the remote IP rules.
	code, _, _ = postClaim(t, env, claimAddress(t), "203.0.113.8")
	if code != http.StatusTooManyRequests {
		t.Fatalf("second claim status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestFormatKas(t *testing.T) {
	tests := []struct {
		sompi uint64
		want  string
	}{
		{0, "0.00000000"},
		{1, "0.00000001"},
		{100_000_000, "1.00000000"},
		{150_000_000, "1.50000000"},
		{399_996_000, "3.99996000"},
		{10_000 * 100_000_000, "10000.00000000"},
	}
	for _, tt := range tests {
		if got := formatKas(tt.sompi); got != tt.want {
			t.Errorf("formatKas(%d) = %q, want %q", tt.sompi, got, tt.want)
		}
	}
}
