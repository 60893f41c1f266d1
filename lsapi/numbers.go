package lsapi

import "github.com/tonfleet/liteclient/internal/tlschema"

// Each combinator's constructor number is derived from the CRC-32 of
// its canonical form, computed here from the same declarations tlgen parsed out of
// tl/schema/liteserver.tl, rather than inlined as a literal hex
// constant: that keeps this file's numbers trivially re-derivable and
// impossible to drift from the schema it was generated against.
var (
	tonNodeBlockIdNumber = number("tonNode", "blockId", "tonNode.BlockId",
		p("workchain", "int"), p("shard", "long"), p("seqno", "int"))

	tonNodeBlockIdExtNumber = number("tonNode", "blockIdExt", "tonNode.BlockIdExt",
		p("workchain", "int"), p("shard", "long"), p("seqno", "int"),
		p("root_hash", "int256"), p("file_hash", "int256"))

	liteServerMasterchainInfoNumber = number("liteServer", "masterchainInfo", "liteServer.MasterchainInfo",
		p("last", "tonNode.blockIdExt"), p("state_root_hash", "int256"), p("init", "tonNode.blockId"))

	liteServerBlockDataNumber = number("liteServer", "blockData", "liteServer.BlockData",
		p("id", "tonNode.blockIdExt"), p("data", "bytes"))

	liteServerBlockHeaderNumber = number("liteServer", "blockHeader", "liteServer.BlockHeader",
		p("id", "tonNode.blockIdExt"), p("mode", "#"), p("header_proof", "bytes"))

	liteServerSendMsgStatusNumber = number("liteServer", "sendMsgStatus", "liteServer.SendMsgStatus",
		p("status", "int"))

	liteServerAccountIdNumber = number("liteServer", "accountId", "liteServer.AccountId",
		p("workchain", "int"), p("id", "int256"))

	liteServerAccountStateNumber = number("liteServer", "accountState", "liteServer.AccountState",
		p("id", "tonNode.blockIdExt"), p("shardblk", "tonNode.blockIdExt"),
		p("shard_proof", "bytes"), p("proof", "bytes"), p("state", "bytes"))

	liteServerAccountStatePrunedNumber = number("liteServer", "accountStatePruned", "liteServer.AccountState",
		p("id", "tonNode.blockIdExt"), p("shardblk", "tonNode.blockIdExt"),
		p("shard_proof", "bytes"), p("proof", "bytes"))

	liteServerRunMethodResultNumber = number("liteServer", "runMethodResult", "liteServer.RunMethodResult",
		p("mode", "#"), p("id", "tonNode.blockIdExt"), p("shardblk", "tonNode.blockIdExt"),
		p("shard_proof", "bytes"), p("proof", "bytes"), p("state_proof", "bytes"),
		p("init_c7", "bytes"), p("lib_extras", "bytes"), p("exit_code", "int"), p("result", "bytes"))

	liteServerShardInfoNumber = number("liteServer", "shardInfo", "liteServer.ShardInfo",
		p("id", "tonNode.blockIdExt"), p("shardblk", "tonNode.blockIdExt"),
		p("shard_proof", "bytes"), p("shard_descr", "bytes"))

	liteServerAllShardsInfoNumber = number("liteServer", "allShardsInfo", "liteServer.AllShardsInfo",
		p("id", "tonNode.blockIdExt"), p("proof", "bytes"), p("data", "bytes"))

	liteServerErrorNumber = number("liteServer", "error", "liteServer.Error",
		p("code", "int"), p("message", "string"))

	liteServerGetMasterchainInfoNumber = number("liteServer", "getMasterchainInfo", "liteServer.MasterchainInfo")

	liteServerGetBlockNumber = number("liteServer", "getBlock", "liteServer.BlockData",
		p("id", "tonNode.blockIdExt"))

	liteServerGetBlockHeaderNumber = number("liteServer", "getBlockHeader", "liteServer.BlockHeader",
		p("id", "tonNode.blockIdExt"), p("mode", "#"))

	liteServerSendMessageNumber = number("liteServer", "sendMessage", "liteServer.SendMsgStatus",
		p("body", "bytes"))

	liteServerGetAccountStateNumber = number("liteServer", "getAccountState", "liteServer.AccountState",
		p("id", "tonNode.blockIdExt"), p("account", "liteServer.accountId"))

	liteServerRunSmcMethodNumber = number("liteServer", "runSmcMethod", "liteServer.RunMethodResult",
		p("mode", "#"), p("id", "tonNode.blockIdExt"), p("account", "liteServer.accountId"),
		p("method_id", "long"), p("params", "bytes"))

	liteServerGetShardInfoNumber = number("liteServer", "getShardInfo", "liteServer.ShardInfo",
		p("id", "tonNode.blockIdExt"), p("workchain", "int"), p("shard", "long"), p("exact", "Bool"))

	liteServerGetAllShardsInfoNumber = number("liteServer", "getAllShardsInfo", "liteServer.AllShardsInfo",
		p("id", "tonNode.blockIdExt"))

	liteServerLookupBlockNumber = number("liteServer", "lookupBlock", "liteServer.BlockHeader",
		p("mode", "#"), p("id", "tonNode.blockId"), p("lt", "long"), p("utime", "int"))

	liteServerQueryNumber = number("liteServer", "query", "Object",
		p("data", "bytes"))

	liteServerWaitMasterchainSeqnoNumber = number("liteServer", "waitMasterchainSeqno", "Object",
		p("seqno", "int"), p("timeout_ms", "int"))
)

func p(name, typ string) tlschema.Param { return tlschema.Param{Name: name, Type: typ} }

func number(namespace, name, result string, params ...tlschema.Param) uint32 {
	return tlschema.ConstructorNumber(tlschema.Combinator{
		Namespace: namespace,
		Name:      name,
		Params:    params,
		Result:    result,
	})
}
