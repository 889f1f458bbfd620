package dto

// DataResponse is the uniform envelope every endpoint responds with.
type DataResponse struct {
	HTTPStatus int         `json:"httpStatus"`
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func NewDataResponse(httpStatus int, status string, message string, data interface{}) DataResponse {
	return DataResponse{
		HTTPStatus: httpStatus,
		Status:     status,
		Message:    message,
		Data:       data,
	}
}

func Success(httpStatus int, message string, data interface{}) DataResponse {
	return NewDataResponse(httpStatus, "success", message, data)
}

func Fail(httpStatus int, message string) DataResponse {
	return NewDataResponse(httpStatus, "fail", message, nil)
}
