package main

// @title ExamWatch Admin API
// @version 1.0
// @description Proctoring session and security event API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
