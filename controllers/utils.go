package controllers

func BoolPointer(b bool) *bool {
	return &b
}

func StrPointer(b string) *string {
	return &b
}
