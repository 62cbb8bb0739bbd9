package api

import "github.com/gin-gonic/gin"

func Router(h *Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	v1 := engine.Group("/v1")
	v1.GET("/health", h.Health)

	v1.GET("/types", h.ListTypes)
	v1.GET("/types/:type/channels", h.TypeChannels)
	v1.GET("/types/:type/fields", h.TypeFields)

	v1.POST("/forms", h.MountForm)
	v1.GET("/forms/:id", h.GetForm)
	v1.DELETE("/forms/:id", h.UnmountForm)
	v1.PUT("/forms/:id/channel", h.SelectChannel)
	v1.PATCH("/forms/:id/fields", h.SetField)
	v1.POST("/forms/:id/recipients", h.EditRecipients)
	v1.POST("/forms/:id/items", h.AddItem)
	v1.DELETE("/forms/:id/items", h.RemoveItem)
	v1.POST("/forms/:id/submit", h.SubmitForm)

	v1.POST("/send", h.Send)
	v1.GET("/submissions", h.ListSubmissions)

	return engine
}
