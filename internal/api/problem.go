package api

import "github.com/gin-gonic/gin"

// Problem is an RFC 7807 error body. Field-level validation failures
// ride in Errors keyed by field path.
type Problem struct {
	Title  string              `json:"title,omitempty"`
	Status int                 `json:"status,omitempty"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func abortProblem(c *gin.Context, status int, title, detail string, errs map[string][]string) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(status, Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: errs,
	})
}
