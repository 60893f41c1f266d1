package tracker

import "errors"

// ErrNoRetrievableBlock is returned when even the masterchain head is
// reported as not retrievable, meaning the server has nothing to offer
// in the searched range.
var ErrNoRetrievableBlock = errors.New("tracker: no retrievable block in range")

// Well-formed lite-server error replies carry a numeric code. Two codes
// are consumed by trackers rather than surfaced: 651 ("block not in
// history", the first-block search's miss signal, folded into the
// BlockChecker's boolean by the querier adapter) and 652 ("wait-for-block
// timeout", meaning the tip did not advance within the server's wait
// window).
const codeWaitTimeout = 652

// serverCoded is implemented by the generated lite-server error reply
// type, so trackers can match on a code without depending on the
// generated package itself.
type serverCoded interface {
	error
	ServerCode() int32
}

func hasServerCode(err error, code int32) bool {
	var sc serverCoded
	return errors.As(err, &sc) && sc.ServerCode() == code
}
