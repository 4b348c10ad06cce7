package controllers

import (
	"log"
	"strings"
	"sync"

	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "phone" and "isodate" tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("⚠️  gin validator engine is not go-playground/validator; custom tags disabled")
			return
		}
		if err := v.RegisterValidation("phone", phoneValidator); err != nil {
			log.Printf("❌ register phone validator: %v", err)
		}
		if err := v.RegisterValidation("isodate", isoDateValidator); err != nil {
			log.Printf("❌ register isodate validator: %v", err)
		}
	})
}

// phoneValidator accepts 10 to 15 digits with the usual separators.
func phoneValidator(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	for _, r := range raw {
		if !strings.ContainsRune("0123456789+-() ", r) {
			return false
		}
	}
	n := len(utils.NormalizePhone(raw))
	return n >= 10 && n <= 15
}

func isoDateValidator(fl validator.FieldLevel) bool {
	_, err := utils.ParseDate(fl.Field().String())
	return err == nil
}
