package wrapper

// JSONResult is what usecases hand back to handlers. Code is the HTTP status,
// Data is the exact response body.
type JSONResult struct {
	Code    int         `json:"-"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the machine-readable failure body used for authentication
// errors: {"code":"invalid_token","message":"...","data":{"status":401}}.
type ErrorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    ErrorBodyStatus `json:"data"`
}

type ErrorBodyStatus struct {
	Status int `json:"status"`
}

func ResponseSuccess(httpCode int, data interface{}) JSONResult {
	return JSONResult{
		Code:    httpCode,
		Success: true,
		Message: "Success",
		Data:    data,
	}
}

func ResponseFailed(httpCode int, message string, data interface{}) JSONResult {
	return JSONResult{
		Code:    httpCode,
		Success: false,
		Message: message,
		Data:    data,
	}
}

// ResponseError builds a failed result whose body is an ErrorBody.
func ResponseError(httpCode int, code, message string) JSONResult {
	return JSONResult{
		Code:    httpCode,
		Success: false,
		Message: message,
		Data: ErrorBody{
			Code:    code,
			Message: message,
			Data:    ErrorBodyStatus{Status: httpCode},
		},
	}
}
