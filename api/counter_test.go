package api

import (
	"fmt"
	"net/http"
	"testing"

	"invoicing/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configRouter() *gin.Engine {
	h := NewConfigHandler(testConfig())
	router := invoiceRouter()
	router.GET("/config", h.Get)
	router.PUT("/config", h.Update)
	router.POST("/config/email/test", h.TestEmail)
	return router
}

func TestConfigHandler_Get_CreatesDefaults(t *testing.T) {
	setupSQLiteDB(t)

	w := doRequest(configRouter(), "GET", "/config", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := responseData(t, w)
	assert.Equal(t, "GSL0000", data["last_invoice_number"])
	assert.Equal(t, "0", data["last_card_id"])
}

func TestConfigHandler_Update(t *testing.T) {
	setupSQLiteDB(t)
	router := configRouter()

	w := doRequest(router, "PUT", "/config", `{"last_invoice_number":" INV0041 "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "INV0041", responseData(t, w)["last_invoice_number"])

	// the next invoice continues from the configured number
	client := createClientViaAPI(t, router, "Acme", "S", "120")
	invoice := createInvoiceViaAPI(t, router, client["id"], "2024-03-05")
	assert.Equal(t, "INV0042", invoice["invoice_number"])

	w = doRequest(router, "GET", "/config", "")
	data := responseData(t, w)
	assert.Equal(t, "INV0042", data["last_invoice_number"])
	assert.Equal(t, "1", data["last_card_id"])
}

func TestConfigHandler_Update_Invalid(t *testing.T) {
	setupSQLiteDB(t)
	router := configRouter()

	w := doRequest(router, "PUT", "/config", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "PUT", "/config", `{"last_invoice_number":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	long := make([]byte, 256)
	for i := range long {
		long[i] = '9'
	}
	w = doRequest(router, "PUT", "/config", fmt.Sprintf(`{"last_invoice_number":%q}`, string(long)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfigHandler_TestEmail(t *testing.T) {
	w := doRequest(configRouter(), "POST", "/config/email/test", `{"to":"jo@example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	cfg := testConfig()
	cfg.Email = config.EmailConfig{Enabled: true, Host: "localhost", Port: 2525}
	router := gin.New()
	router.POST("/config/email/test", NewConfigHandler(cfg).TestEmail)

	w = doRequest(router, "POST", "/config/email/test", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "POST", "/config/email/test", `{"to":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
