package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errNoClient = errors.New("transaction requires a mongo client")

// withTransaction は enabled のとき fn をセッショントランザクション内で実行する。
// 無効の場合は ctx をそのまま渡して 1 回だけ呼ぶ。
func withTransaction(ctx context.Context, client *mongo.Client, enabled bool, fn func(ctx context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}
	if client == nil {
		return errNoClient
	}
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// スタンドアロンの mongod はトランザクションを受け付けない。
func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

// TransactionsSupported は hello コマンドで接続先がレプリカセットか mongos かを判定する。
func TransactionsSupported(ctx context.Context, client *mongo.Client) (bool, error) {
	if client == nil {
		return false, errNoClient
	}
	var reply helloReply
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		return false, err
	}
	return reply.supportsTransactions(), nil
}

// ResolveTransactional は設定値と接続先の対応状況から、書き込みをトランザクションで包むかを決める。
func ResolveTransactional(ctx context.Context, client *mongo.Client, requested bool, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !requested {
		logger.Info("mongo writes run without transactions")
		return false
	}
	ok, err := TransactionsSupported(ctx, client)
	if err != nil {
		logger.Warn("could not detect mongo topology, falling back to plain writes", zap.Error(err))
		return false
	}
	if !ok {
		logger.Warn("mongo server is standalone, falling back to plain writes")
		return false
	}
	logger.Info("mongo batch commits and cascade deletes run in transactions")
	return true
}
