package httputil

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var ErrRequestBodyEmpty = errors.New("the request body must not be empty")

// BindData binds the JSON body of the request to the struct passed in.
func BindData(c *gin.Context, data interface{}) error {
	err := c.ShouldBindJSON(data)
	if errors.Is(err, io.EOF) {
		return ErrRequestBodyEmpty
	}

	return err
}
