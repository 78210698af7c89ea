package v1

import (
	"io"
	"mime"
	"net/http"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/service"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// forwardedHeaders are passed through to every billing provider call
var forwardedHeaders = []string{"Stripe-Account", "Stripe-Version"}

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GetInvoicePDF godoc
// @Summary Render an invoice as PDF
// @Description Fetch the invoice from Stripe and render it. A JSON body on POST overrides invoice fields.
// @Tags Invoices
// @Accept json
// @Param id path string true "Stripe invoice ID"
// @Success 200 {file} application/pdf
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	id := c.Param("id")

	overrides, err := h.overrides(c)
	if err != nil {
		c.Error(err)
		return
	}

	ctx := types.SetInvoiceID(c.Request.Context(), id)
	c.Request = c.Request.WithContext(ctx)

	name, doc, err := h.invoiceService.Generate(ctx, id, overrides)
	if err != nil {
		h.logger.Errorw("failed to generate invoice pdf", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}
	defer doc.Close()

	body, err := io.ReadAll(doc)
	if err != nil {
		c.Error(ierr.WithError(err).WithHint("failed to read rendered pdf").Mark(ierr.ErrRender))
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "application/pdf", body)
}

// overrides reads invoice field overrides from the JSON body and the
// provider headers of the request
func (h *InvoiceHandler) overrides(c *gin.Context) (types.Fields, error) {
	overrides := types.Fields{}
	if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			return nil, ierr.WithError(err).
				WithHint("invalid request body, expected a JSON object of invoice fields").
				Mark(ierr.ErrValidation)
		}
	}

	headers := lo.Associate(
		lo.Filter(forwardedHeaders, func(k string, _ int) bool { return c.GetHeader(k) != "" }),
		func(k string) (string, string) { return k, c.GetHeader(k) },
	)
	if len(headers) > 0 {
		overrides[service.HeadersKey] = headers
	} else {
		// headers can only come from the request itself
		delete(overrides, service.HeadersKey)
	}

	return overrides, nil
}
