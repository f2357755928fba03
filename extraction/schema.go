package extraction

import (
	"github.com/arnavzz/Conversation-Management/types"
)

// ContactSchema returns the stock five-field contact record: name and
// email are required, phone, location and age are optional, age must be
// an integer.
func ContactSchema() *types.JSONSchema {
	return types.NewObjectSchema().
		AddProperty("name", types.NewStringSchema().
			WithDescription("Full name of the person")).
		AddProperty("email", types.NewStringSchema().
			WithFormat(types.FormatEmail).
			WithDescription("Email address")).
		AddProperty("phone", types.NewStringSchema().
			WithDescription("Phone number, as written in the text")).
		AddProperty("location", types.NewStringSchema().
			WithDescription("City or place of residence")).
		AddProperty("age", types.NewIntegerSchema().
			WithDescription("Age in years")).
		AddRequired("name", "email")
}
