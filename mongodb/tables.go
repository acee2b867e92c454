package mongodb

// MgoSignRequest sign request record, key is the sign request id
type MgoSignRequest struct {
	Key           string `bson:"_id"`
	App           string `bson:"app"`
	TxJSON        string `bson:"txjson"`
	Instruction   string `bson:"instruction"`
	NextURL       string `bson:"nexturl"`
	State         string `bson:"state"`
	SignedPayload string `bson:"signedpayload"`
	TxHash        string `bson:"txhash"`
	Signer        string `bson:"signer"`
	LastError     string `bson:"lasterror"`
	InitTime      int64  `bson:"inittime"`
	Timestamp     int64  `bson:"timestamp"`
}

// MgoSubmittedTx submitted transaction record, key is the tx hash
type MgoSubmittedTx struct {
	Key         string `bson:"_id"`
	App         string `bson:"app"`
	SignRequest string `bson:"signrequest"`
	Network     string `bson:"network"`
	Format      string `bson:"format"`
	ResultCode  string `bson:"resultcode"`
	Status      string `bson:"status"`
	Message     string `bson:"message"`
	LedgerIndex uint32 `bson:"ledgerindex"`
	Timestamp   int64  `bson:"timestamp"`
}

// MgoReconciliation last reconciled state of an escrow, key is the creation tx hash
type MgoReconciliation struct {
	Key             string `bson:"_id"`
	Owner           string `bson:"owner"`
	Network         string `bson:"network"`
	State           string `bson:"state"`
	ResolvingTxHash string `bson:"resolvingtxhash,omitempty"`
	Reason          string `bson:"reason,omitempty"`
	NetworkMismatch bool   `bson:"networkmismatch"`
	Timestamp       int64  `bson:"timestamp"`
}

// SignRequestUpdateItems sign request update items
type SignRequestUpdateItems struct {
	State         string
	SignedPayload string
	TxHash        string
	Signer        string
	LastError     string
}
