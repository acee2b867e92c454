package ripple

// ResultSuccess the only successful engine result
const ResultSuccess = "tesSUCCESS"

var resultMessages = map[string]string{
	"tecNO_DST":                "destination account does not exist",
	"tecNO_DST_INSUF_XRP":      "destination account does not exist and the amount is too small to create it",
	"tecUNFUNDED_PAYMENT":      "insufficient balance to send this amount",
	"tecUNFUNDED":              "insufficient balance",
	"tecINSUFFICIENT_RESERVE":  "insufficient balance to meet the account reserve",
	"tecDST_TAG_NEEDED":        "destination requires a destination tag",
	"tecPATH_DRY":              "no liquidity path, check the trust line to the issuer",
	"tecPATH_PARTIAL":          "only part of the amount could be delivered",
	"tecNO_LINE":               "no trust line for this asset",
	"tecNO_LINE_INSUF_RESERVE": "insufficient reserve to create the trust line",
	"tecNO_TARGET":             "escrow not found, it may already be finished or cancelled",
	"tecNO_PERMISSION":         "not permitted, the escrow time condition is not met or the account may not do this",
	"tecCRYPTOCONDITION_ERROR": "the fulfillment does not match the escrow condition",
	"tecEXPIRED":               "the transaction has expired",
	"tecNO_AUTH":               "the destination is not authorized to hold this asset",
	"tecFROZEN":                "the asset is frozen",
	"tefPAST_SEQ":              "sequence number already used, the transaction may be a duplicate",
	"tefMAX_LEDGER":            "last ledger sequence passed before the transaction was included",
	"tefALREADY":               "the transaction was already applied",
	"tefBAD_AUTH":              "the signing key is not authorized for this account",
	"terNO_ACCOUNT":            "the sending account does not exist",
	"terPRE_SEQ":               "a previous transaction of this account is still missing",
	"terINSUF_FEE_B":           "insufficient balance to pay the fee",
	"temBAD_AMOUNT":            "invalid amount",
	"temBAD_FEE":               "invalid fee",
	"temBAD_SIGNATURE":         "invalid signature",
	"temBAD_EXPIRATION":        "invalid escrow time bounds",
	"temREDUNDANT":             "source and destination are the same account",
	"temMALFORMED":             "malformed transaction",
	"temINVALID":               "invalid transaction",
	"temDST_IS_SRC":            "destination is the sending account",
	"telINSUF_FEE_P":           "fee too low for the current load",
	"telCAN_NOT_QUEUE":         "the transaction could not be queued",
	"telCAN_NOT_QUEUE_FULL":    "the transaction queue is full",
	"tecINSUF_RESERVE_LINE":    "insufficient reserve to hold this trust line",
	"tecKILLED":                "the transaction was killed",
	"tecDUPLICATE":             "the object already exists",
}

// DescribeResult returns a human readable cause of an engine result.
// Unknown codes are returned unchanged.
func DescribeResult(code string) string {
	if code == ResultSuccess {
		return "the transaction was applied"
	}
	if msg, exist := resultMessages[code]; exist {
		return msg
	}
	return code
}
