package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// ------------------------------------------------------------------
// Government schemes
// ------------------------------------------------------------------

type SchemeController struct {
	schemes services.SchemeService
}

func NewSchemeController(schemes services.SchemeService) *SchemeController {
	return &SchemeController{schemes: schemes}
}

func (c *SchemeController) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.schemes.List(r.Context(), queryParam(r, "state"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SchemesResponse{Schemes: list})
}

func (c *SchemeController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SchemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sc, err := c.schemes.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreatedResponse{Message: "Scheme created successfully", ID: sc.ID.String()})
}

func (c *SchemeController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SchemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := c.schemes.Update(r.Context(), mux.Vars(r)["id"], req); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Scheme updated successfully"})
}

func (c *SchemeController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.schemes.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Scheme deleted successfully"})
}

// ------------------------------------------------------------------
// Crop prices
// ------------------------------------------------------------------

type PriceController struct {
	prices services.PriceService
}

func NewPriceController(prices services.PriceService) *PriceController {
	return &PriceController{prices: prices}
}

func (c *PriceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.prices.List(r.Context(), queryParam(r, "state"), queryParam(r, "region"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PricesResponse{Prices: list})
}

// MarketPricesHandler sorts by distance when both lat and lng are given.
func (c *PriceController) MarketPricesHandler(w http.ResponseWriter, r *http.Request) {
	var origin *services.Coordinates
	latStr, lngStr := queryParam(r, "lat"), queryParam(r, "lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid lat/lng", nil)
			return
		}
		origin = &services.Coordinates{Lat: lat, Lng: lng}
	}

	list, err := c.prices.Nearby(r.Context(), origin)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PricesResponse{Prices: list})
}

func (c *PriceController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.prices.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreatedResponse{Message: "Price created successfully", ID: p.ID.String()})
}

func (c *PriceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdatePriceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.prices.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewPriceResponse(p))
}

func (c *PriceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.prices.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Price deleted successfully"})
}

// ------------------------------------------------------------------
// Expert articles and daily news
// ------------------------------------------------------------------

type ContentController struct {
	content services.ContentService
}

func NewContentController(content services.ContentService) *ContentController {
	return &ContentController{content: content}
}

func (c *ContentController) ListArticlesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.content.ListArticles(r.Context(), queryParam(r, "category"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	out := make([]dtos.ArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dtos.NewArticleResponse(a))
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ArticlesResponse{Articles: out})
}

func (c *ContentController) GetArticleHandler(w http.ResponseWriter, r *http.Request) {
	a, err := c.content.GetArticle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewArticleResponse(a))
}

func (c *ContentController) CreateArticleHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	a, err := c.content.CreateArticle(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreatedResponse{Message: "Article created successfully", ID: a.ID.String()})
}

func (c *ContentController) UpdateArticleHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	a, err := c.content.UpdateArticle(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewArticleResponse(a))
}

func (c *ContentController) DeleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.content.DeleteArticle(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Article deleted successfully"})
}

func (c *ContentController) ListNewsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.content.ListNews(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewsListResponse{News: list})
}

func (c *ContentController) GetNewsHandler(w http.ResponseWriter, r *http.Request) {
	n, err := c.content.GetNews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

func (c *ContentController) CreateNewsHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateNewsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.content.CreateNews(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreatedResponse{Message: "News created successfully", ID: n.ID.String()})
}

func (c *ContentController) UpdateNewsHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateNewsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.content.UpdateNews(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

func (c *ContentController) DeleteNewsHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.content.DeleteNews(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "News deleted successfully"})
}
