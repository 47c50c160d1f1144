package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Gen1023/financial-products/internal/client"
	"github.com/Gen1023/financial-products/internal/config"
	"github.com/Gen1023/financial-products/internal/domain"
	apphttp "github.com/Gen1023/financial-products/internal/http"
	"github.com/Gen1023/financial-products/internal/http/handlers"
	"github.com/Gen1023/financial-products/internal/session"
)

var errDown = fmt.Errorf("%w: status 500", client.ErrRequestFailed)

// fakeAPI is an in-memory products API recording every call.
type fakeAPI struct {
	mu       sync.Mutex
	products []domain.Product
	calls    []string
	fail     map[string]bool
	updated  []domain.Product
}

func newFake(ps ...domain.Product) *fakeAPI {
	return &fakeAPI{products: ps, fail: map[string]bool{}}
}

func (f *fakeAPI) hit(op string) error {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errDown
	}
	return nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) List(context.Context) (client.ListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("list"); err != nil {
		return client.ListResponse{}, err
	}
	return client.ListResponse{Data: append([]domain.Product(nil), f.products...)}, nil
}

func (f *fakeAPI) Create(_ context.Context, p domain.Product) (client.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("create"); err != nil {
		return client.Result{}, err
	}
	f.products = append(f.products, p)
	return client.Result{Message: "Product added successfully", Data: &p}, nil
}

func (f *fakeAPI) GetByID(_ context.Context, id string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("get"); err != nil {
		return domain.Product{}, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: status 404", client.ErrRequestFailed)
}

func (f *fakeAPI) Update(_ context.Context, p domain.Product) (client.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("update"); err != nil {
		return client.Result{}, err
	}
	f.updated = append(f.updated, p)
	return client.Result{Message: "Product updated successfully"}, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) (client.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("delete"); err != nil {
		return client.Result{}, err
	}
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return client.Result{Message: "Product removed successfully"}, nil
}

func seed(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{
			ID:           fmt.Sprintf("p%02d", i+1),
			Name:         fmt.Sprintf("Producto %02d", i+1),
			Description:  "Descripcion de prueba",
			Logo:         "http://x/l.png",
			DateRelease:  "2024-01-01",
			DateRevision: "2025-01-01",
		}
	}
	return out
}

func testConfig() config.Config {
	return config.Config{
		Env:        "test",
		APIBaseURL: "http://localhost:3002/bp",
		Landing:    config.LandingHome,
	}
}

func newApp(t *testing.T, api *fakeAPI, tweak func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := testConfig()
	if tweak != nil {
		tweak(&cfg)
	}
	deps := handlers.NewDeps(api, session.NewStore(), cfg)
	return apphttp.NewApp(cfg, deps, nil)
}

// browser replays cookies across requests the way a real browser would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(method, target string, form url.Values) *http.Response {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		b.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (b *browser) get(target string) (*http.Response, string) {
	b.t.Helper()
	resp := b.do("GET", target, nil)
	return resp, readBody(b.t, resp)
}

func (b *browser) post(target string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp := b.do("POST", target, form)
	return resp, readBody(b.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func productForm(name string) url.Values {
	return url.Values{
		"id":            {"prod01"},
		"name":          {name},
		"description":   {"Descripcion larga de prueba"},
		"logo":          {"http://x/l.png"},
		"date_release":  {"2024-01-01"},
		"date_revision": {"2025-01-01"},
	}
}
