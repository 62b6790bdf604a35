package handlers

import (
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain binding tags:
//
//	difficulty  easy|medium|hard in any case
//	language    a language the judge can run
//	paramtype   a template parameter type
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseDifficulty(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := services.NormalizeLanguage(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("paramtype", func(fl validator.FieldLevel) bool {
		return services.ValidateSignature("f", []models.TaskParam{{Name: "x", Type: fl.Field().String()}}, "int") == nil
	})
}
