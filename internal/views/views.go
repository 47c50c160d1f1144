// Package views holds the list, create and edit controllers. They know
// nothing about HTTP or templates: handlers feed them input and render what
// they return.
package views

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Gen1023/financial-products/internal/client"
	"github.com/Gen1023/financial-products/internal/domain"
	"github.com/Gen1023/financial-products/internal/listing"
	"github.com/Gen1023/financial-products/internal/validate"
)

// User facing notifications.
const (
	MsgCreated       = "Producto creado con éxito"
	MsgCreateFailed  = "Error al crear producto"
	MsgLoadFailed    = "No se pudo cargar el producto"
	MsgUpdated       = "Producto actualizado exitosamente"
	MsgUpdateFailed  = "Error al actualizar producto"
	MsgDeleted       = "Producto eliminado exitosamente"
	MsgDeleteFailed  = "Error al eliminar producto"
	MsgConfirmDelete = "¿Estás seguro de eliminar este producto?"
)

// ProductAPI is the subset of the products API the views use.
// *client.Client implements it.
type ProductAPI interface {
	List(ctx context.Context) (client.ListResponse, error)
	Create(ctx context.Context, p domain.Product) (client.Result, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) (client.Result, error)
	Delete(ctx context.Context, id string) (client.Result, error)
}

// Notifier reports the outcome of an action to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Outcome tells the caller where the user goes next.
type Outcome int

const (
	Stay Outcome = iota
	GoList
)

// ProductForm is the editable form state, as typed by the user.
type ProductForm struct {
	ID           string `form:"id"`
	Name         string `form:"name"`
	Description  string `form:"description"`
	Logo         string `form:"logo"`
	DateRelease  string `form:"date_release"`
	DateRevision string `form:"date_revision"`
}

// Product packages the form fields into a record.
func (f ProductForm) Product() domain.Product {
	return domain.Product{
		ID:           strings.TrimSpace(f.ID),
		Name:         strings.TrimSpace(f.Name),
		Description:  strings.TrimSpace(f.Description),
		Logo:         strings.TrimSpace(f.Logo),
		DateRelease:  domain.DateOnly(strings.TrimSpace(f.DateRelease)),
		DateRevision: domain.DateOnly(strings.TrimSpace(f.DateRevision)),
	}
}

// FormFrom fills a form from a fetched record, keeping only the date part of
// both dates.
func FormFrom(p domain.Product) ProductForm {
	return ProductForm{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  domain.DateOnly(p.DateRelease),
		DateRevision: domain.DateOnly(p.DateRevision),
	}
}

// FormResult is what a submit hands back for rendering.
type FormResult struct {
	Form   ProductForm
	Errors validate.FieldErrors
	Next   Outcome
	Err    error
}

// Invalid reports a validation failure; no call was made.
func (r FormResult) Invalid() bool { return len(r.Errors) > 0 }

// ListView drives the product list for one session.
type ListView struct {
	api     ProductAPI
	notify  Notifier
	confirm Confirmer
	state   *listing.State
}

func NewListView(api ProductAPI, n Notifier, c Confirmer, st *listing.State) *ListView {
	return &ListView{api: api, notify: n, confirm: c, state: st}
}

// Load fetches the full list. A failure is logged and shows as an empty list.
func (v *ListView) Load(ctx context.Context) {
	res, err := v.api.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", "product_list").Msg("load products failed")
		v.state.Replace(nil)
		return
	}
	v.state.Replace(res.Data)
}

// EnsureLoaded fetches only when the state has never been filled.
func (v *ListView) EnsureLoaded(ctx context.Context) {
	if !v.state.Loaded() {
		v.Load(ctx)
	}
}

// Delete removes a product after the user confirms. On success the whole
// list is fetched again; on failure the state is left as it was. It reports
// whether the delete call was issued and succeeded.
func (v *ListView) Delete(ctx context.Context, id string) (bool, error) {
	if !v.confirm.Confirm(ctx, MsgConfirmDelete) {
		return false, nil
	}
	if _, err := v.api.Delete(ctx, id); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", "product_delete").Str("id", id).Msg("delete failed")
		v.notify.Notify(ctx, MsgDeleteFailed)
		return false, err
	}
	v.notify.Notify(ctx, MsgDeleted)
	v.Load(ctx)
	return true, nil
}

// CreateView submits new products.
type CreateView struct {
	api    ProductAPI
	notify Notifier
}

func NewCreateView(api ProductAPI, n Notifier) *CreateView {
	return &CreateView{api: api, notify: n}
}

// Submit validates the form and, when it passes, creates the product.
func (v *CreateView) Submit(ctx context.Context, form ProductForm) FormResult {
	p := form.Product()
	if errs := validate.Product(p); errs != nil {
		return FormResult{Form: form, Errors: errs, Next: Stay}
	}
	if _, err := v.api.Create(ctx, p); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", "product_create").Str("id", p.ID).Msg("create failed")
		v.notify.Notify(ctx, MsgCreateFailed)
		return FormResult{Form: form, Next: Stay, Err: err}
	}
	v.notify.Notify(ctx, MsgCreated)
	return FormResult{Form: form, Next: GoList}
}

// EditView loads and updates an existing product. The id always comes from
// the route.
type EditView struct {
	api    ProductAPI
	notify Notifier
}

func NewEditView(api ProductAPI, n Notifier) *EditView {
	return &EditView{api: api, notify: n}
}

// Load fetches the product for the form. When it cannot be fetched the user
// is notified and sent back to the list.
func (v *EditView) Load(ctx context.Context, id string) (ProductForm, Outcome, error) {
	p, err := v.api.GetByID(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", "product_load").Str("id", id).Msg("load product failed")
		v.notify.Notify(ctx, MsgLoadFailed)
		return ProductForm{}, GoList, err
	}
	f := FormFrom(p)
	f.ID = id
	return f, Stay, nil
}

// Submit ignores any id in form and updates the product stored under id.
func (v *EditView) Submit(ctx context.Context, id string, form ProductForm) FormResult {
	form.ID = id
	p := form.Product()
	if errs := validate.Product(p); errs != nil {
		return FormResult{Form: form, Errors: errs, Next: Stay}
	}
	if _, err := v.api.Update(ctx, p); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", "product_update").Str("id", id).Msg("update failed")
		v.notify.Notify(ctx, MsgUpdateFailed)
		return FormResult{Form: form, Next: Stay, Err: err}
	}
	v.notify.Notify(ctx, MsgUpdated)
	return FormResult{Form: form, Next: GoList}
}
