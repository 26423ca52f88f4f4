package server

import (
	"github.com/gin-gonic/gin"
)

// envelope is the response wrapper of every endpoint
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, envelope{Status: true, Message: message, Data: data})
}

func fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, envelope{Status: false, Message: message})
}
