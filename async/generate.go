package async

//go:generate go run ../cmd/comerrgen --input errors.md --output zz_generated_errors.go --package async
