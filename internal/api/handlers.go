package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omnimsg/composer/internal/client"
	"github.com/omnimsg/composer/internal/form"
	"github.com/omnimsg/composer/internal/model"
	"github.com/omnimsg/composer/internal/pipeline"
	"github.com/omnimsg/composer/internal/registry"
	"github.com/omnimsg/composer/internal/sublog"
)

type Handler struct {
	forms     *form.Store
	submitter *pipeline.Submitter
	log       sublog.Log
}

func NewHandler(forms *form.Store, submitter *pipeline.Submitter, log sublog.Log) *Handler {
	return &Handler{forms: forms, submitter: submitter, log: log}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "forms": h.forms.Len()})
}

type typeInfo struct {
	Type     model.MessageType `json:"type"`
	Channels []model.Channel   `json:"channels"`
	HasForm  bool              `json:"hasForm"`
}

func (h *Handler) ListTypes(c *gin.Context) {
	out := make([]typeInfo, 0, len(model.AllTypes))
	for _, t := range model.AllTypes {
		out = append(out, typeInfo{
			Type:     t,
			Channels: registry.AvailableChannels(t),
			HasForm:  registry.Registered(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": out})
}

func (h *Handler) TypeChannels(c *gin.Context) {
	t, ok := h.messageType(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t, "channels": registry.AvailableChannels(t)})
}

func (h *Handler) TypeFields(c *gin.Context) {
	t, ok := h.messageType(c)
	if !ok {
		return
	}
	fs, err := registry.Lookup(t)
	if err != nil {
		abortProblem(c, http.StatusNotFound, "form not found", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, fs)
}

type mountRequest struct {
	Type    string `json:"type" binding:"required"`
	Channel string `json:"channel"`
}

func (h *Handler) MountForm(c *gin.Context) {
	var body mountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}

	t, ok := model.ParseMessageType(body.Type)
	if !ok {
		abortProblem(c, http.StatusNotFound, "form not found", "unknown message type "+body.Type, nil)
		return
	}

	var channel model.Channel
	if body.Channel != "" {
		ch, ok := model.ParseChannel(body.Channel)
		if !ok {
			abortProblem(c, http.StatusBadRequest, "unknown channel", "unknown channel "+body.Channel, nil)
			return
		}
		channel = ch
	}

	st, err := h.forms.Mount(t, channel)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownMessageType) {
			abortProblem(c, http.StatusNotFound, "form not found", err.Error(), nil)
			return
		}
		abortProblem(c, http.StatusBadRequest, "cannot mount form", err.Error(), nil)
		return
	}

	c.JSON(http.StatusCreated, h.formView(st))
}

func (h *Handler) GetForm(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formView(st))
}

func (h *Handler) UnmountForm(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	h.forms.Unmount(st.ID)
	c.Status(http.StatusNoContent)
}

type channelRequest struct {
	Channel string `json:"channel" binding:"required"`
}

func (h *Handler) SelectChannel(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var body channelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}
	ch, okc := model.ParseChannel(body.Channel)
	if !okc {
		abortProblem(c, http.StatusBadRequest, "unknown channel", "unknown channel "+body.Channel, nil)
		return
	}
	if err := st.SelectChannel(ch); err != nil {
		abortProblem(c, http.StatusBadRequest, "channel not available", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, h.formView(st))
}

type setFieldRequest struct {
	Path  string `json:"path" binding:"required"`
	Value any    `json:"value"`
}

func (h *Handler) SetField(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var body setFieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}
	if err := st.SetField(body.Path, body.Value); err != nil {
		abortProblem(c, http.StatusBadRequest, "cannot set field", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, h.formView(st))
}

type recipientsRequest struct {
	Input string `json:"input"`
	Key   string `json:"key"` // "", "enter" or "backspace"
}

// EditRecipients drives the tag-chip recipient editor of a form
// session. Clients stream keystrokes here; the committed chips plus
// any pending text land in the form's "to" field.
func (h *Handler) EditRecipients(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var body recipientsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}
	list, err := st.EditRecipients(body.Input, body.Key)
	if err != nil {
		abortProblem(c, http.StatusBadRequest, "cannot edit recipients", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipients": list})
}

type addItemRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *Handler) AddItem(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var body addItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}
	added, length, err := st.AddItem(body.Path)
	if err != nil {
		abortProblem(c, http.StatusBadRequest, "cannot add item", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "length": length})
}

type removeItemRequest struct {
	Path  string `json:"path" binding:"required"`
	Index *int   `json:"index" binding:"required"`
}

func (h *Handler) RemoveItem(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var body removeItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}
	length, err := st.RemoveItem(body.Path, *body.Index)
	if err != nil {
		abortProblem(c, http.StatusBadRequest, "cannot remove item", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"length": length})
}

func (h *Handler) SubmitForm(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}

	// duplicate submits while one is in flight are dropped
	if !st.BeginSubmit() {
		abortProblem(c, http.StatusConflict, "submit in progress", "a submit for this form is already in flight", nil)
		return
	}
	defer st.EndSubmit()

	res, err := h.submitter.Submit(c.Request.Context(), st.Type, st.Channel(), st.Values())
	if err != nil {
		h.submitError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "id": res.ID, "response": res.Response})
}

type sendRequest struct {
	Type    string         `json:"type" binding:"required"`
	Channel string         `json:"channel"`
	Values  map[string]any `json:"values" binding:"required"`
}

// Send is the stateless one-shot path for clients that keep form state
// themselves; it runs the exact same pipeline as a form submit.
func (h *Handler) Send(c *gin.Context) {
	var body sendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortProblem(c, http.StatusBadRequest, "invalid body", err.Error(), nil)
		return
	}

	t, ok := model.ParseMessageType(body.Type)
	if !ok {
		abortProblem(c, http.StatusNotFound, "form not found", "unknown message type "+body.Type, nil)
		return
	}

	var channel model.Channel
	if body.Channel == "" {
		ch, okc := registry.DefaultChannel(t)
		if !okc {
			abortProblem(c, http.StatusBadRequest, "no channel available", "no channels available for "+string(t), nil)
			return
		}
		channel = ch
	} else {
		ch, okc := model.ParseChannel(body.Channel)
		if !okc {
			abortProblem(c, http.StatusBadRequest, "unknown channel", "unknown channel "+body.Channel, nil)
			return
		}
		channel = ch
	}

	res, err := h.submitter.Submit(c.Request.Context(), t, channel, body.Values)
	if err != nil {
		h.submitError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "id": res.ID, "response": res.Response})
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := h.log.Recent(c.Request.Context(), limit)
	if err != nil {
		abortProblem(c, http.StatusInternalServerError, "submission log unavailable", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) submitError(c *gin.Context, err error) {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		errs := make(map[string][]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			errs[fe.Path] = append(errs[fe.Path], fe.Msg)
		}
		abortProblem(c, http.StatusUnprocessableEntity, "validation failed", verr.Error(), errs)
		return
	}

	var terr *client.TransportError
	if errors.As(err, &terr) {
		abortProblem(c, http.StatusBadGateway, "gateway send failed", terr.Error(), nil)
		return
	}

	if errors.Is(err, registry.ErrUnknownMessageType) {
		abortProblem(c, http.StatusNotFound, "form not found", err.Error(), nil)
		return
	}

	abortProblem(c, http.StatusBadRequest, "cannot submit", err.Error(), nil)
}

func (h *Handler) session(c *gin.Context) (*form.State, bool) {
	st, err := h.forms.Get(c.Param("id"))
	if err != nil {
		abortProblem(c, http.StatusNotFound, "form session not found", err.Error(), nil)
		return nil, false
	}
	return st, true
}

func (h *Handler) messageType(c *gin.Context) (model.MessageType, bool) {
	t, ok := model.ParseMessageType(c.Param("type"))
	if !ok {
		abortProblem(c, http.StatusNotFound, "form not found", "unknown message type "+c.Param("type"), nil)
		return "", false
	}
	return t, true
}

func (h *Handler) formView(st *form.State) gin.H {
	return gin.H{
		"id":      st.ID,
		"type":    st.Type,
		"channel": st.Channel(),
		"values":  st.Values(),
	}
}
