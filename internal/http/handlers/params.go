package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hongminglow/blog-be/internal/apperror"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/models"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidJSON = apperror.BadRequest("invalid JSON payload")
	errInvalidPage = apperror.BadRequest("page must be a positive number")
	errInvalidID   = apperror.BadRequest("id must be a positive number")
	errNoPrincipal = apperror.Internal("missing principal", nil)
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

// pageRequest reads ?page and ?search. A missing or zero page means the first page.
func pageRequest(r *http.Request) (models.PageRequest, error) {
	q := r.URL.Query()
	req := models.PageRequest{Search: q.Get("search")}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 || page > models.MaxPage {
			return models.PageRequest{}, errInvalidPage
		}
		req.Page = page
	}
	return req, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

func principal(r *http.Request) (auth.Principal, error) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return auth.Principal{}, errNoPrincipal
	}
	return p, nil
}
