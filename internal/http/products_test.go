package http_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gen1023/financial-products/internal/config"
	"github.com/Gen1023/financial-products/internal/domain"
	"github.com/Gen1023/financial-products/internal/validate"
)

func TestLanding_HomeByDefault(t *testing.T) {
	b := newBrowser(t, newApp(t, newFake(seed(3)...), nil))

	resp, body := b.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ver productos financieros")
	assert.NotContains(t, body, "Producto 01")
}

func TestLanding_List(t *testing.T) {
	b := newBrowser(t, newApp(t, newFake(seed(3)...), func(c *config.Config) { c.Landing = config.LandingList }))

	resp, body := b.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Producto 01")
}

func TestList_PaginatesAndSearches(t *testing.T) {
	api := newFake(seed(12)...)
	b := newBrowser(t, newApp(t, api, nil))

	_, body := b.get("/products")
	assert.Contains(t, body, "Producto 05")
	assert.NotContains(t, body, "Producto 06")
	assert.Contains(t, body, "Página 1 de 3")

	_, body = b.get("/products?nav=next")
	assert.Contains(t, body, "Producto 06")
	assert.Contains(t, body, "Página 2 de 3")

	_, body = b.get("/products?nav=next")
	_, body = b.get("/products?nav=next")
	assert.Contains(t, body, "Página 3 de 3", "next on the last page stays there")
	assert.Equal(t, []string{"list"}, api.Calls(), "paging works on the last fetch")

	_, body = b.get("/products?q=" + url.QueryEscape("  PRODUCTO 1 ") + "&size=5")
	for _, want := range []string{"Producto 10", "Producto 11", "Producto 12"} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, "Producto 01")
	assert.NotContains(t, body, "Página", "one page of results has no pager")

	_, body = b.get("/products?q=&size=20")
	assert.Contains(t, body, "Producto 12")
	assert.Contains(t, body, "Producto 01")

	// an entry without query resets the view and fetches again
	_, body = b.get("/products")
	assert.Contains(t, body, "Página 1 de 3")
	assert.Equal(t, []string{"list", "list"}, api.Calls())
}

func TestList_SearchTermStaysWithItsBrowser(t *testing.T) {
	app := newApp(t, newFake(seed(12)...), nil)
	alice := newBrowser(t, app)
	bob := newBrowser(t, app)

	_, body := alice.get("/products?q=p01")
	assert.Contains(t, body, `value="p01"`)

	bob.get("/products?q=zzz")
	bob.get("/products?x=abcdefghijklmnop")

	_, body = alice.get("/products?page=1")
	assert.Contains(t, body, `value="p01"`)
	assert.NotContains(t, body, "zzz")
	assert.Contains(t, body, "Producto 01")
	assert.NotContains(t, body, "Producto 02")
}

func TestList_RejectsUnofferedPageSize(t *testing.T) {
	b := newBrowser(t, newApp(t, newFake(seed(12)...), nil))
	b.get("/products")

	resp, body := b.get("/products?size=7")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Página 1 de 3")
}

func TestList_BackendDownShowsEmpty(t *testing.T) {
	api := newFake(seed(3)...)
	api.fail["list"] = true
	b := newBrowser(t, newApp(t, api, nil))

	resp, body := b.get("/products")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No hay productos.")
}

func TestList_EscapesProductFields(t *testing.T) {
	p := seed(1)[0]
	p.Name = "<script>alert(1)</script>"
	b := newBrowser(t, newApp(t, newFake(p), nil))

	_, body := b.get("/products")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestCreate_ShortNameRejectedWithoutCall(t *testing.T) {
	api := newFake()
	b := newBrowser(t, newApp(t, api, nil))

	resp, body := b.post("/products/create", productForm("abcde"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, validate.IDRule, "the create form states the id format")
	assert.Contains(t, body, "Debe tener al menos 6 caracteres")
	assert.Contains(t, body, `value="abcde"`)
	assert.Empty(t, api.Calls())
}

func TestCreate_RejectsUnsafeID(t *testing.T) {
	api := newFake()
	b := newBrowser(t, newApp(t, api, nil))

	form := productForm("Producto Seis")
	form.Set("id", "a/b c")
	resp, body := b.post("/products/create", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `<span class="field-error">`+validate.IDRule)
	assert.Empty(t, api.Calls())
}

func TestCreate_SuccessRedirectsWithNotice(t *testing.T) {
	api := newFake()
	b := newBrowser(t, newApp(t, api, nil))

	resp, _ := b.post("/products/create", productForm("Producto Seis"))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))

	_, body := b.get("/products")
	assert.Contains(t, body, "Producto creado con éxito")
	assert.Contains(t, body, "Producto Seis")

	_, body = b.get("/products?nav=next")
	assert.NotContains(t, body, "Producto creado con éxito", "notices are shown once")
}

func TestCreate_FailureKeepsValues(t *testing.T) {
	api := newFake()
	api.fail["create"] = true
	b := newBrowser(t, newApp(t, api, nil))

	resp, body := b.post("/products/create", productForm("Producto Seis"))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Error al crear producto")
	assert.Contains(t, body, `value="Producto Seis"`)
	assert.Contains(t, body, "Descripcion larga de prueba")
}

func TestEdit_LoadFailureReturnsToList(t *testing.T) {
	b := newBrowser(t, newApp(t, newFake(seed(2)...), nil))

	resp, _ := b.get("/products/edit/missing")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))

	_, body := b.get("/products")
	assert.Contains(t, body, "No se pudo cargar el producto")
}

func TestEdit_PrefillsDatesAndKeepsRouteID(t *testing.T) {
	p := seed(1)[0]
	p.ID = "prod01"
	p.DateRelease = "2024-01-01T00:00:00.000Z"
	p.DateRevision = "2025-01-01T00:00:00.000Z"
	api := newFake(p)
	b := newBrowser(t, newApp(t, api, nil))

	resp, body := b.get("/products/edit/prod01")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="2024-01-01"`)
	assert.NotContains(t, body, "T00:00")
	assert.Contains(t, body, "disabled")

	form := productForm("Nombre Cambiado")
	form.Set("id", "tampered")
	resp, _ = b.post("/products/edit/prod01", form)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	require.Len(t, api.updated, 1)
	assert.Equal(t, "prod01", api.updated[0].ID)
	assert.Equal(t, "Nombre Cambiado", api.updated[0].Name)

	_, body = b.get("/products")
	assert.Contains(t, body, "Producto actualizado exitosamente")
}

func TestEdit_FailureStaysOnForm(t *testing.T) {
	api := newFake(domain.Product{ID: "prod01"})
	api.fail["update"] = true
	b := newBrowser(t, newApp(t, api, nil))

	resp, body := b.post("/products/edit/prod01", productForm("Producto Seis"))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Error al actualizar producto")
	assert.Contains(t, body, `value="Producto Seis"`)
}

func TestDelete_ConfirmThenReload(t *testing.T) {
	api := newFake(seed(3)...)
	b := newBrowser(t, newApp(t, api, nil))
	b.get("/products")

	resp, body := b.get("/products/delete/p01")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "¿Estás seguro de eliminar este producto?")
	assert.Contains(t, body, "Producto 01")

	// without the confirmation field nothing is deleted
	resp, _ = b.post("/products/delete/p01", url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, []string{"list"}, api.Calls())

	resp, _ = b.post("/products/delete/p01", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products?page=1", resp.Header.Get("Location"))
	assert.Equal(t, []string{"list", "delete", "list"}, api.Calls())

	_, body = b.get(resp.Header.Get("Location"))
	assert.Contains(t, body, "Producto eliminado exitosamente")
	assert.NotContains(t, body, `data-id="p01"`)
	assert.Contains(t, body, `data-id="p02"`)
}

func TestDelete_FailureKeepsList(t *testing.T) {
	api := newFake(seed(3)...)
	api.fail["delete"] = true
	b := newBrowser(t, newApp(t, api, nil))
	b.get("/products")

	resp, _ := b.post("/products/delete/p01", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, body := b.get(resp.Header.Get("Location"))
	assert.Contains(t, body, "Error al eliminar producto")
	assert.Contains(t, body, `data-id="p01"`)
	assert.Equal(t, []string{"list", "delete"}, api.Calls())
}

func TestBadRouteIDs(t *testing.T) {
	api := newFake()
	b := newBrowser(t, newApp(t, api, nil))

	resp, _ := b.get("/products/delete/" + url.PathEscape("<x>"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = b.get("/products/edit/" + url.PathEscape("a b"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Empty(t, api.Calls())
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/products"))
}
