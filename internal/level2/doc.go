// Package level2 decodes NEXRAD Level II (Archive II) volume files produced
// by WSR-88D weather radars.
//
// # Archive Layout
//
// A volume file begins with a 24-byte Volume Header Record: a 12-byte archive
// label ("AR2V0006." plus a three-digit extension number), the file date and
// time, and the four-character ICAO site identifier. The remainder of the file
// is a sequence of messages. Every message starts with a 28-byte header whose
// type field selects the decode path:
//
//	type 31   Digital Radar Data (Generic Format): variable length,
//	          carries one radial of moment data, decoded in full.
//	other     RDA housekeeping (status, VCP, clutter map, ...): stored in
//	          fixed 2432-byte frames and skipped without inspection.
//
// The fixed frame size for non-31 messages comes from the Archive II format
// description (ICD 2620010E); it is not derived from any length field inside
// the message, so a hypothetical variable-length housekeeping message would
// desynchronize the walk and surface as a decode error on the next frame.
//
// # Compression
//
// Most archived volumes are stored as concatenated bzip2 records. A file is
// compressed when bytes 28..30 read "BZ" (the start of the first record's
// bzip2 magic, directly after the uncompressed volume header). Each record is
// preceded by a 4-byte big-endian control word holding the compressed length;
// the final record's control word may be negative. [Decompress] reassembles
// the plaintext volume, and [Decode] accepts either form.
//
// # Message 31
//
// A type 31 message is self-describing: after its 32-byte header comes a table
// of up to ten 4-byte pointers, each an offset relative to the start of the
// message (not the file). Every pointer targets a data block introduced by a
// 4-byte tag, one byte of block type plus a three-character name:
//
//	VOL  site coordinates, calibration, VCP number       (one per radial)
//	ELV  elevation-specific calibration                  (one per radial)
//	RAD  noise levels, nyquist velocity, radial flags    (one per radial)
//	REF  reflectivity                  VEL  radial velocity
//	SW   spectrum width                ZDR  differential reflectivity
//	PHI  differential phase            RHO  correlation coefficient
//	CFP  clutter filter probability
//
// Moment blocks carry a sampling-geometry header followed by one raw sample
// per gate, 8 or 16 bits wide. The pointer table is not required to be
// monotonic, so decoding seeks backward as well as forward within the message.
// An unrecognized tag aborts the whole decode: it means the walk is lost or
// the file carries a format revision this package does not understand.
//
// # Gate Scaling
//
// Raw gate codes 0 and 1 are reserved: 0 means the return was below the
// signal threshold and 1 means the measurement was ambiguous (range folded).
// Every other code converts to physical units as (code - offset) / scale
// using the moment's own scale and offset; a zero scale marks an unscaled
// moment whose codes are used directly. [ScaleGate] is the single place this
// contract lives.
//
// Decoding is one synchronous pass over an in-memory buffer. Any error aborts
// the whole file with no partial result; the returned [DataFile] is immutable
// and safe for concurrent readers.
package level2
