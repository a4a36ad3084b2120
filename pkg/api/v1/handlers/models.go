package handlers

import (
	"fmt"
	"strconv"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/restbridge/restbridge/internal/api/v1/middleware"
	"github.com/restbridge/restbridge/internal/query"
	"github.com/restbridge/restbridge/internal/store"
	"github.com/restbridge/restbridge/internal/types"
)

// Browse lists a page of records of a model. The query string carries
// the filter conditions plus the _page/_size/_order/_fields directives.
func (h *ModelHandler) Browse(c *fiber.Ctx) error {
	model := c.Params("model")

	fields, err := h.modelFields(c, model, store.OpBrowse)
	if err != nil {
		return respondError(c, err)
	}

	projected, err := query.Project(model, c.Query(query.KeyFields), query.DefaultBrowseFields, fields)
	if err != nil {
		return respondError(c, err)
	}

	page, size, err := query.ParsePageRequest(c.Query(query.KeyPage), c.Query(query.KeySize), h.maxPageSize)
	if err != nil {
		return respondError(c, err)
	}

	fieldMap := types.FieldMap(fields)

	order, err := query.ParseOrder(model, c.Query(query.KeyOrder), fieldMap)
	if err != nil {
		return respondError(c, err)
	}

	filter, err := query.Assemble(model, string(c.Request().URI().QueryString()), fieldMap)
	if err != nil {
		return respondError(c, err)
	}

	total, err := h.records.SearchCount(c.Context(), model, filter)
	if err != nil {
		return respondError(c, err)
	}

	content, err := h.records.SearchRead(c.Context(), model, filter, projected, query.NewWindow(page, size), order)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(query.Summarize(page, size, total, content, order))
}

// KeyReadFields is the projection parameter of read-by-id. Unlike the
// browse directives it carries no underscore prefix: single-record reads
// have no filter grammar to collide with.
const KeyReadFields = "fields"

// Read fetches one record by id. Without the fields parameter every
// field of the model is returned.
func (h *ModelHandler) Read(c *fiber.Ctx) error {
	model := c.Params("model")

	fields, err := h.modelFields(c, model, store.OpRead)
	if err != nil {
		return respondError(c, err)
	}

	id, err := recordID(c)
	if err != nil {
		return respondError(c, err)
	}

	projected, err := query.Project(model, c.Query(KeyReadFields), nil, fields)
	if err != nil {
		return respondError(c, err)
	}

	filter := query.FilterSet{{Field: "id", Operator: query.OpEqual, Value: id}}
	content, err := h.records.SearchRead(c.Context(), model, filter, projected, query.Window{Limit: 1}, "")
	if err != nil {
		return respondError(c, err)
	}
	if len(content) == 0 {
		return respondError(c, types.NewNotFound(ErrMsgRecordNotFound, id, model))
	}

	return c.JSON(content[0])
}

// Add creates a record from the JSON body and answers 201 with a
// Location header pointing at the new record.
func (h *ModelHandler) Add(c *fiber.Ctx) error {
	model := c.Params("model")

	fields, err := h.modelFields(c, model, store.OpAdd)
	if err != nil {
		return respondError(c, err)
	}

	values := types.Record{}
	if err := c.BodyParser(&values); err != nil {
		return respondError(c, types.NewValidation(ErrMsgInvalidReqBody))
	}

	if err := validateValues(model, values, fields); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(values, fields); err != nil {
		return respondError(c, err)
	}

	id, err := h.records.Create(c.Context(), model, values)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderLocation, fmt.Sprintf("/rest/models/%s/%d", model, id))
	return c.Status(fiber.StatusCreated).JSON(types.CreateResponse{ID: id, Message: "OK"})
}

// Edit applies a partial update to one record.
func (h *ModelHandler) Edit(c *fiber.Ctx) error {
	model := c.Params("model")

	fields, err := h.modelFields(c, model, store.OpEdit)
	if err != nil {
		return respondError(c, err)
	}

	id, err := recordID(c)
	if err != nil {
		return respondError(c, err)
	}

	values := types.Record{}
	if err := c.BodyParser(&values); err != nil {
		return respondError(c, types.NewValidation(ErrMsgInvalidReqBody))
	}
	if err := validateValues(model, values, fields); err != nil {
		return respondError(c, err)
	}

	found, err := h.records.Write(c.Context(), model, id, values)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return respondError(c, types.NewNotFound(ErrMsgRecordNotFound, id, model))
	}

	return c.JSON(types.MessageResponse{Message: "OK"})
}

// Delete removes one record by id.
func (h *ModelHandler) Delete(c *fiber.Ctx) error {
	model := c.Params("model")

	if _, err := h.modelFields(c, model, store.OpDelete); err != nil {
		return respondError(c, err)
	}

	id, err := recordID(c)
	if err != nil {
		return respondError(c, err)
	}

	found, err := h.records.Unlink(c.Context(), model, id)
	if err != nil {
		return respondError(c, err)
	}
	if !found {
		return respondError(c, types.NewNotFound(ErrMsgRecordNotFound, id, model))
	}

	return c.JSON(types.MessageResponse{Message: "OK"})
}

// modelFields runs the shared preamble of every model endpoint: the
// model must exist, the caller must be allowed to run op on it, and the
// field descriptors are needed downstream.
func (h *APIHandler) modelFields(c *fiber.Ctx, model string, op store.Op) ([]types.FieldDescriptor, error) {
	exists, err := h.schema.ModelExists(c.Context(), model)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NewNotFound(ErrMsgModelNotFound, model)
	}

	principal, _ := middleware.Principal(c)
	if err := h.access.Check(c.Context(), principal, model, op); err != nil {
		return nil, err
	}

	return h.schema.Fields(c.Context(), model)
}

func recordID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, types.NewValidation(ErrMsgInvalidRecordID, raw)
	}
	return id, nil
}

// validateValues rejects a body that names a field the model does not
// have.
func validateValues(model string, values types.Record, fields []types.FieldDescriptor) error {
	known := types.FieldMap(fields)
	for name := range values {
		if _, ok := known[name]; !ok {
			return types.NewValidation(ErrMsgInvalidField, name, model)
		}
	}
	return nil
}

// requireFields checks the body against the required fields of the
// model, reporting every missing one in declaration order.
func requireFields(values types.Record, fields []types.FieldDescriptor) error {
	var missing []string
	for _, f := range fields {
		if !f.Required || f.Name == "id" {
			continue
		}
		if _, ok := values[f.Name]; !ok {
			missing = append(missing, "'"+f.Name+"'")
		}
	}
	if len(missing) > 0 {
		return types.NewValidation(ErrMsgMissingFields, strings.Join(missing, ", "))
	}
	return nil
}
