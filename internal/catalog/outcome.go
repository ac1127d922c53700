package catalog

// Outcome renders an operation result the way the request layer reports it: "Success", or "Failure: <reason>".
func Outcome(err error) string {
	if err == nil {
		return "Success"
	}
	return "Failure: " + err.Error()
}
