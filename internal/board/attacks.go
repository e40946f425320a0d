package board

// direction indexes the eight ray directions; the first four grow the square index.
type direction int

const (
	dirNorth direction = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthEast
	dirSouthWest
)

var dirDelta = [8][2]int{ // {file, rank}
	dirNorth:     {0, 1},
	dirEast:      {1, 0},
	dirNorthEast: {1, 1},
	dirNorthWest: {-1, 1},
	dirSouth:     {0, -1},
	dirWest:      {-1, 0},
	dirSouthEast: {1, -1},
	dirSouthWest: {-1, -1},
}

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	rays [8][64]Bitboard // squares seen from sq in a direction on an empty board

	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // full board line through two aligned squares
)

func init() {
	initLeapers()
	initRays()
	initLines()
}

func initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&notFileA | (bb<<15)&notFileH |
			(bb>>17)&notFileH | (bb>>15)&notFileA |
			(bb<<10)&notFileAB | (bb<<6)&notFileGH |
			(bb>>10)&notFileGH | (bb>>6)&notFileAB

		kingAttacks[sq] = bb.north() | bb.south() | bb.east() | bb.west() |
			bb.northEast() | bb.northWest() | bb.southEast() | bb.southWest()

		pawnAttacks[White][sq] = bb.northEast() | bb.northWest()
		pawnAttacks[Black][sq] = bb.southEast() | bb.southWest()
	}
}

func initRays() {
	for d := dirNorth; d <= dirSouthWest; d++ {
		df, dr := dirDelta[d][0], dirDelta[d][1]
		for sq := A1; sq <= H8; sq++ {
			var ray Bitboard
			for f, r := sq.File()+df, sq.Rank()+dr; f >= 0 && f < 8 && r >= 0 && r < 8; f, r = f+df, r+dr {
				ray |= SquareBB(NewSquare(f, r))
			}
			rays[d][sq] = ray
		}
	}
}

func initLines() {
	for from := A1; from <= H8; from++ {
		for d := dirNorth; d <= dirSouthWest; d++ {
			opposite := (d + 4) % 8
			ray := rays[d][from]
			for ray != 0 {
				to := ray.PopLSB()
				betweenBB[from][to] = rays[d][from] & rays[opposite][to]
				lineBB[from][to] = rays[d][from] | rays[opposite][from] | SquareBB(from)
			}
		}
	}
}

// rayAttacks returns the squares a slider on sq sees in direction d,
// stopping at (and including) the first occupied square.
func rayAttacks(sq Square, d direction, occupied Bitboard) Bitboard {
	ray := rays[d][sq]
	blockers := ray & occupied
	if blockers == 0 {
		return ray
	}
	var first Square
	if d < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[d][first]
}

// BishopAttacks returns the diagonal attacks from sq occluded by occupied.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, dirNorthEast, occupied) | rayAttacks(sq, dirNorthWest, occupied) |
		rayAttacks(sq, dirSouthEast, occupied) | rayAttacks(sq, dirSouthWest, occupied)
}

// RookAttacks returns the orthogonal attacks from sq occluded by occupied.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, dirNorth, occupied) | rayAttacks(sq, dirEast, occupied) |
		rayAttacks(sq, dirSouth, occupied) | rayAttacks(sq, dirWest, occupied)
}

// QueenAttacks returns the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// KnightAttacks returns the knight jump targets from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king step targets from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq captures on.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// Between returns the squares strictly between two aligned squares, empty otherwise.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full line through two aligned squares, empty otherwise.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool {
	return Line(a, b).Has(c)
}

// AttackersByColor returns the pieces of color c attacking sq, sliders seen through occupied.
func (b *Board) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	them := c.Other()
	return pawnAttacks[them][sq]&b.Pieces[c][Pawn] |
		knightAttacks[sq]&b.Pieces[c][Knight] |
		kingAttacks[sq]&b.Pieces[c][King] |
		BishopAttacks(sq, occupied)&(b.Pieces[c][Bishop]|b.Pieces[c][Queen]) |
		RookAttacks(sq, occupied)&(b.Pieces[c][Rook]|b.Pieces[c][Queen])
}

// IsAttacked reports whether sq is attacked by color c on the current occupancy.
func (b *Board) IsAttacked(sq Square, c Color) bool {
	return b.AttackersByColor(sq, c, b.All) != 0
}
