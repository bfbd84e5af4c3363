package render

import (
	"encoding/json"
	"net/http"

	"curvance/core"
	"curvance/handler/codes"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(H{"data": v}); err != nil {
		logrus.Errorln(err)
	}
}

// Error write an error response. Internal error codes map onto HTTP status
// through the codes package; anything else answers 500.
func Error(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errCode := int(core.ErrUnknown)

	if code, ok := err.(core.ErrorCode); ok {
		statusCode = codes.HTTPStatus(code)
		errCode = int(code)
	}

	write(w, statusCode, errCode, err)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusNotFound, -1, err)
}

func write(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if e := json.NewEncoder(w).Encode(H{"code": errCode, "msg": err.Error()}); e != nil {
		logrus.Errorln(e)
	}
}
