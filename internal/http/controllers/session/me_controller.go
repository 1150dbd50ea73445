package session

import (
	"net/http"

	dto "github.com/mlsniperpro/mediquestai/internal/http/dto/session"
	httperrors "github.com/mlsniperpro/mediquestai/internal/http/errors"
)

// Me maneja GET /v1/session: el snapshot actual de la sesión.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	rec, ok := c.resolve(w, r)
	if !ok {
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.NewSessionView(rec.Current()))
}
