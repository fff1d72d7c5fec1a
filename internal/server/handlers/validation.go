package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/liancar/yard/internal/domain/models"
)

const statusTag = "yardstatus"

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(statusTag, validateStatus)
	})
}

func validateStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseStatus(fl.Field().String())
	return err == nil
}
