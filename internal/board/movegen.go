package board

// promotionRoles lists the roles a pawn may promote to, strongest first.
var promotionRoles = [4]Role{Queen, Rook, Bishop, Knight}

// legality holds the per-position data every candidate move is checked against.
type legality struct {
	us, them Color
	ksq      Square
	checkers Bitboard
	pinned   Bitboard // our pieces that are the only blocker between the king and a sniper
	target   Bitboard // destinations that keep the king out of check for non-king moves
}

// LegalMoves returns every legal move of the side to move.
//
// Moves are generated per role from the attack tables. King moves are
// filtered against the squares the opponent attacks, pinned pieces may only
// move along the pin ray, and en passant is verified separately because it
// removes two pieces from the same rank.
func (p *Position) LegalMoves() []Move {
	moves := make([]Move, 0, 48)
	lg := p.legality()

	moves = p.genKingMoves(moves, &lg)
	if lg.checkers.MoreThanOne() {
		return moves
	}
	moves = p.genPawnMoves(moves, &lg)
	moves = p.genEnPassant(moves, &lg)
	moves = p.genLeaperMoves(moves, &lg, Knight)
	moves = p.genSliderMoves(moves, &lg, Bishop)
	moves = p.genSliderMoves(moves, &lg, Rook)
	moves = p.genSliderMoves(moves, &lg, Queen)
	if lg.checkers == 0 {
		moves = p.genCastling(moves, &lg)
	}
	return moves
}

func (p *Position) legality() legality {
	lg := legality{us: p.Turn, them: p.Turn.Other(), ksq: p.ourKing()}
	lg.checkers = p.AttackersByColor(lg.ksq, lg.them, p.All)
	lg.pinned = p.pinnedBlockers(lg.ksq, lg.us)

	switch {
	case lg.checkers == 0:
		lg.target = ^p.Occupied[lg.us]
	case !lg.checkers.MoreThanOne():
		checker := lg.checkers.LSB()
		lg.target = lg.checkers | Between(checker, lg.ksq)
	}
	return lg
}

// pinnedBlockers returns the pieces of color c that alone stand between
// c's king on ksq and an enemy slider that would otherwise attack it.
func (p *Position) pinnedBlockers(ksq Square, c Color) Bitboard {
	them := c.Other()
	snipers := RookAttacks(ksq, 0)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen])

	var pinned Bitboard
	for snipers != 0 {
		sniper := snipers.PopLSB()
		blockers := Between(sniper, ksq) & p.All
		if blockers != 0 && !blockers.MoreThanOne() && blockers&p.Occupied[c] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// allowed reports whether a non-king move from -> to keeps the king safe.
func (lg *legality) allowed(from, to Square) bool {
	if !lg.target.Has(to) {
		return false
	}
	return !lg.pinned.Has(from) || Aligned(from, to, lg.ksq)
}

func (p *Position) genKingMoves(moves []Move, lg *legality) []Move {
	// Without the king on the board, sliders see through its square.
	occ := p.All &^ SquareBB(lg.ksq)
	targets := KingAttacks(lg.ksq) &^ p.Occupied[lg.us]
	for targets != 0 {
		to := targets.PopLSB()
		if p.AttackersByColor(to, lg.them, occ) != 0 {
			continue
		}
		moves = append(moves, NewNormal(lg.ksq, to, King, p.RoleAt(to, lg.them), NoRole))
	}
	return moves
}

func (p *Position) genPawnMoves(moves []Move, lg *legality) []Move {
	us := lg.us
	forward, startRank, lastRank := 8, Rank2, Rank8
	if us == Black {
		forward, startRank, lastRank = -8, Rank7, Rank1
	}

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()

		var targets Bitboard
		one := Square(int(from) + forward)
		if !p.All.Has(one) {
			targets |= SquareBB(one)
			two := Square(int(one) + forward)
			if startRank.Has(from) && !p.All.Has(two) {
				targets |= SquareBB(two)
			}
		}
		targets |= PawnAttacks(from, us) & p.Occupied[lg.them]

		for targets != 0 {
			to := targets.PopLSB()
			if !lg.allowed(from, to) {
				continue
			}
			captured := p.RoleAt(to, lg.them)
			if lastRank.Has(to) {
				for _, promo := range promotionRoles {
					moves = append(moves, NewNormal(from, to, Pawn, captured, promo))
				}
				continue
			}
			moves = append(moves, NewNormal(from, to, Pawn, captured, NoRole))
		}
	}
	return moves
}

// genEnPassant adds en passant captures that do not expose the king. The
// capture clears two squares of one rank at once, which the single-blocker
// pin analysis cannot see, so the slider attacks on the king are recomputed
// on the occupancy after the capture.
func (p *Position) genEnPassant(moves []Move, lg *legality) []Move {
	ep := p.EnPassant
	if ep == NoSquare {
		return moves
	}
	them := lg.them
	capturers := PawnAttacks(ep, them) & p.Pieces[lg.us][Pawn]
	for capturers != 0 {
		from := capturers.PopLSB()
		captured := NewSquare(ep.File(), from.Rank())
		if !p.Pieces[them][Pawn].Has(captured) {
			continue
		}

		occ := p.All&^SquareBB(from)&^SquareBB(captured) | SquareBB(ep)
		if RookAttacks(lg.ksq, occ)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) != 0 {
			continue
		}
		if BishopAttacks(lg.ksq, occ)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) != 0 {
			continue
		}
		leapers := lg.checkers & (p.Pieces[them][Pawn] | p.Pieces[them][Knight]) &^ SquareBB(captured)
		if leapers != 0 {
			continue
		}
		moves = append(moves, NewEnPassant(from, ep))
	}
	return moves
}

func (p *Position) genLeaperMoves(moves []Move, lg *legality, role Role) []Move {
	pieces := p.Pieces[lg.us][role]
	for pieces != 0 {
		from := pieces.PopLSB()
		moves = p.addTargets(moves, lg, role, from, KnightAttacks(from))
	}
	return moves
}

func (p *Position) genSliderMoves(moves []Move, lg *legality, role Role) []Move {
	pieces := p.Pieces[lg.us][role]
	for pieces != 0 {
		from := pieces.PopLSB()
		var attacks Bitboard
		switch role {
		case Bishop:
			attacks = BishopAttacks(from, p.All)
		case Rook:
			attacks = RookAttacks(from, p.All)
		default:
			attacks = QueenAttacks(from, p.All)
		}
		moves = p.addTargets(moves, lg, role, from, attacks)
	}
	return moves
}

func (p *Position) addTargets(moves []Move, lg *legality, role Role, from Square, attacks Bitboard) []Move {
	targets := attacks &^ p.Occupied[lg.us]
	for targets != 0 {
		to := targets.PopLSB()
		if lg.allowed(from, to) {
			moves = append(moves, NewNormal(from, to, role, p.RoleAt(to, lg.them), NoRole))
		}
	}
	return moves
}

// genCastling adds castling moves. The rook must still carry the right, the
// squares between king and rook must be empty, and no square the king
// stands on or crosses may be attacked. Callers skip it while in check.
func (p *Position) genCastling(moves []Move, lg *legality) []Move {
	for _, cr := range castlingRook {
		if cr.color != lg.us || p.Castling&cr.right == 0 {
			continue
		}
		if !p.Pieces[lg.us][Rook].Has(cr.rook) {
			continue
		}
		if Between(lg.ksq, cr.rook)&p.All != 0 {
			continue
		}
		m := NewCastle(lg.ksq, cr.rook)
		dest := m.Destination()
		transit := Between(lg.ksq, dest) | SquareBB(lg.ksq) | SquareBB(dest)
		safe := true
		for transit != 0 {
			if p.IsAttacked(transit.PopLSB(), lg.them) {
				safe = false
				break
			}
		}
		if safe {
			moves = append(moves, m)
		}
	}
	return moves
}

// IsCheckmate reports whether the side to move is in check with no legal move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && len(p.LegalMoves()) == 0
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && len(p.LegalMoves()) == 0
}

// Mobility counts the pseudo-legal moves of color c: moves that follow the
// piece rules but may leave c's own king attacked. Castling and en passant
// are not counted and a promotion counts once.
func (p *Position) Mobility(c Color) int {
	own := p.Occupied[c]
	enemy := p.Occupied[c.Other()]
	empty := ^p.All

	pawns := p.Pieces[c][Pawn]
	var n int
	if c == White {
		one := pawns.north() & empty
		n += one.Count() + ((one & Rank3).north() & empty).Count()
		n += (pawns.northEast() & enemy).Count() + (pawns.northWest() & enemy).Count()
	} else {
		one := pawns.south() & empty
		n += one.Count() + ((one & Rank6).south() & empty).Count()
		n += (pawns.southEast() & enemy).Count() + (pawns.southWest() & enemy).Count()
	}

	for role := Knight; role <= King; role++ {
		pieces := p.Pieces[c][role]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks Bitboard
			switch role {
			case Knight:
				attacks = KnightAttacks(from)
			case Bishop:
				attacks = BishopAttacks(from, p.All)
			case Rook:
				attacks = RookAttacks(from, p.All)
			case Queen:
				attacks = QueenAttacks(from, p.All)
			case King:
				attacks = KingAttacks(from)
			}
			n += (attacks &^ own).Count()
		}
	}
	return n
}
