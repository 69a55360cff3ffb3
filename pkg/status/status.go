package status

const (
	OK                    string = "OK"
	CREATED               string = "CREATED"
	BAD_REQUEST           string = "BAD_REQUEST"
	NOT_FOUND             string = "NOT_FOUND"
	UNPROCESSABLE_ENTITY  string = "UNPROCESSABLE_ENTITY"
	INTERNAL_SERVER_ERROR string = "INTERNAL_SERVER_ERROR"
)
