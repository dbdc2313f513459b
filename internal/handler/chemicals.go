package handler

import (
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

// ChemicalHandler serves /v1/chemicals.
type ChemicalHandler struct {
	Chemicals *repository.ChemicalRepo
}

func NewChemicalHandler(chemicals *repository.ChemicalRepo) *ChemicalHandler {
	return &ChemicalHandler{Chemicals: chemicals}
}

func (h *ChemicalHandler) Search(c echo.Context) error {
	s, err := model.ParseChemicalSearch(c.QueryParams())
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Chemicals.Search(ctx, s)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ChemicalHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	chem, err := h.Chemicals.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, chem)
}

func (h *ChemicalHandler) Create(c echo.Context) error {
	var req model.NewChemical
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return errors.NotValidf("chemical without name")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	chem, err := h.Chemicals.Create(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusCreated, chem)
}

func (h *ChemicalHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req model.PartialChemical
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Chemicals.Update(ctx, id, req); err != nil {
		return errors.Trace(err)
	}
	chem, err := h.Chemicals.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, chem)
}

func (h *ChemicalHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Chemicals.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	return c.NoContent(http.StatusNoContent)
}
