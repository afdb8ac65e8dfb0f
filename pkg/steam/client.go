package steam

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skeldnet/cosmetics-backend/pkg/config"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

const (
	liveInterface    = "ISteamMicroTxn"
	sandboxInterface = "ISteamMicroTxnSandbox"

	responseBodyReadLimit int64 = 1 << 16

	agreementStatusActive = "Active"
)

var errPublisherKeyRequired = errors.New("steam publisher key is required")

// Client drives the Steam partner microtransaction Web API. InitTxn honors
// the sandbox flag; FinalizeTxn and agreement lookups always hit the live
// interface, matching how the vendor account is provisioned.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	appID      int
	sandbox    bool
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the partner API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Steam partner API client from configuration.
func NewClient(cfg config.SteamConfig, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.PublisherKey)
	if key == "" {
		return nil, errPublisherKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		key:        key,
		appID:      cfg.AppID,
		sandbox:    cfg.Sandbox,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// NewOrderID draws 8 random bytes and renders them as an unsigned decimal.
// Random rather than sequential so order volume never leaks to the vendor.
func NewOrderID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating order id: %w", err)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 10), nil
}

// InitTxnParams describes a purchase initiation: one line item, USD.
type InitTxnParams struct {
	OrderID     string
	SteamID     string
	ItemID      string
	AmountCents int64
	Description string
	Recurring   bool
}

// TxnRefs carries the vendor-issued identifiers for an initiated purchase.
type TxnRefs struct {
	OrderID string
	TransID string
}

// AgreementStatus is the read-only projection of a vendor-side recurring
// billing agreement.
type AgreementStatus struct {
	Period          string          `json:"period"`
	Frequency       int             `json:"frequency"`
	RecurringAmount decimal.Decimal `json:"recurringAmount"`
	Active          bool            `json:"active"`
	Currency        string          `json:"currency"`
	StartDate       string          `json:"startDate"`
}

// InitTxn opens a vendor-side order for a single bundle.
func (c *Client) InitTxn(ctx context.Context, p InitTxnParams) (*TxnRefs, error) {
	form := c.baseForm()
	form.Set("orderid", p.OrderID)
	form.Set("steamid", p.SteamID)
	form.Set("itemcount", "1")
	form.Set("language", "en")
	form.Set("currency", "USD")
	form.Set("itemid[0]", p.ItemID)
	form.Set("qty[0]", "1")
	form.Set("amount[0]", strconv.FormatInt(p.AmountCents, 10))
	form.Set("description[0]", p.Description)

	if p.Recurring {
		form.Set("billingtype[0]", "steam")
		form.Set("period[0]", "month")
		form.Set("frequency[0]", "1")
		form.Set("startdate[0]", time.Now().UTC().Format("20060102"))
	}

	params, err := c.post(ctx, c.initInterface(), "InitTxn", "v3", form)
	if err != nil {
		return nil, err
	}

	return &TxnRefs{
		OrderID: params.OrderID.String(),
		TransID: params.TransID.String(),
	}, nil
}

// FinalizeTxn confirms a previously initiated order with the vendor.
func (c *Client) FinalizeTxn(ctx context.Context, orderID string) error {
	form := c.baseForm()
	form.Set("orderid", orderID)

	_, err := c.post(ctx, liveInterface, "FinalizeTxn", "v2", form)
	return err
}

// GetUserAgreementInfo reads the buyer's recurring billing agreement, if any.
func (c *Client) GetUserAgreementInfo(ctx context.Context, steamID string) (*AgreementStatus, error) {
	query := c.baseForm()
	query.Set("steamid", steamID)

	endpoint := fmt.Sprintf("%s/%s/GetUserAgreementInfo/v2/?%s", c.baseURL, liveInterface, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVendor, err, "build steam request")
	}

	params, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	if len(params.Agreements) == 0 {
		return &AgreementStatus{}, nil
	}

	agreement := params.Agreements[0]
	return &AgreementStatus{
		Period:          agreement.Period,
		Frequency:       agreement.Frequency,
		RecurringAmount: decimal.NewFromInt(agreement.RecurringAmt).Div(decimal.NewFromInt(100)),
		Active:          agreement.Status == agreementStatusActive,
		Currency:        agreement.Currency,
		StartDate:       agreement.StartDate,
	}, nil
}

func (c *Client) initInterface() string {
	if c.sandbox {
		return sandboxInterface
	}
	return liveInterface
}

func (c *Client) baseForm() url.Values {
	form := url.Values{}
	form.Set("key", c.key)
	form.Set("appid", strconv.Itoa(c.appID))
	return form
}

func (c *Client) post(ctx context.Context, apiInterface, method, version string, form url.Values) (*txnResponseParams, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s/", c.baseURL, apiInterface, method, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVendor, err, "build steam request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.execute(req)
}

// txnResponseParams covers the union of params Steam returns across the
// three calls this client makes.
type txnResponseParams struct {
	OrderID json.Number `json:"orderid"`
	TransID json.Number `json:"transid"`

	Agreements []struct {
		Period       string `json:"period"`
		Frequency    int    `json:"frequency"`
		RecurringAmt int64  `json:"recurring_amt"`
		Status       string `json:"status"`
		Currency     string `json:"currency"`
		StartDate    string `json:"startdate"`
	} `json:"agreements"`
}

type txnResponse struct {
	Result string             `json:"result"`
	Params *txnResponseParams `json:"params"`
	Error  *struct {
		ErrorCode json.Number `json:"errorcode"`
		ErrorDesc string      `json:"errordesc"`
	} `json:"error"`
}

func (c *Client) execute(req *http.Request) (*txnResponseParams, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeVendor, "steam client not configured")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVendor, err, "SteamApi Error")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeVendor, err, "SteamApi Error: reading response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeVendor, fmt.Sprintf("SteamApi Error: %s", strings.TrimSpace(string(body))))
	}

	var parsed txnResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Steam sometimes answers HTML on key/parameter problems.
		return nil, pkgerrors.New(pkgerrors.CodeVendor, fmt.Sprintf("Critical SteamApi Error: %s", strings.TrimSpace(string(body))))
	}

	if parsed.Result == "Failure" {
		desc := ""
		var details any
		if parsed.Error != nil {
			desc = parsed.Error.ErrorDesc
			details = parsed.Error
		}
		return nil, pkgerrors.New(pkgerrors.CodeVendor, fmt.Sprintf("SteamApi Error: %s", desc)).WithDetails(details)
	}

	if parsed.Params == nil {
		return &txnResponseParams{}, nil
	}
	return parsed.Params, nil
}
