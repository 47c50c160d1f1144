package handlers

import (
	"github.com/Gen1023/financial-products/internal/config"
	"github.com/Gen1023/financial-products/internal/session"
	"github.com/Gen1023/financial-products/internal/views"
)

type Deps struct {
	HomeHandler    *HomeHandler
	ProductHandler *ProductHandler
	Landing        string
}

func NewDeps(api views.ProductAPI, sessions *session.Store, cfg config.Config) *Deps {
	return &Deps{
		HomeHandler:    &HomeHandler{},
		ProductHandler: &ProductHandler{API: api, Sessions: sessions},
		Landing:        cfg.Landing,
	}
}
