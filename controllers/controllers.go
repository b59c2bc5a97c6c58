// Package controllers binds HTTP requests, delegates to the service layer,
// and shapes responses. Handlers hold no business logic.
package controllers

import (
	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}
