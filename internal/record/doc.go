// Package record reads and writes the recent-items collection stored inside
// an IDE settings document.
//
// The IDE keeps its recent items as a JSON array in the text value of one
// element of a larger XML document:
//
//	<content>
//	  <indexed>
//	    <collection name="CodeContainers.Offline">
//	      <value name="value">[{"Key":"...","Value":{...}}]</value>
//	    </collection>
//	    ...
//	  </indexed>
//	</content>
//
// # Reading
//
// [Decode] and [DecodeReader] stream tokens until the designated element is
// found and stop there; unrelated siblings are skipped without being kept in
// memory. Reading is tolerant: a missing element, an empty value, malformed
// JSON or malformed XML all decode to an empty collection. Only failures of
// the underlying reader are returned as errors.
//
// # Writing
//
// [Encode] and [Replace] splice new text into the byte range of the value
// element and copy every other byte of the document verbatim. The IDE owns
// the rest of the file, so nothing outside that range is reformatted.
// A document without the designated element fails with [ErrNodeNotFound].
package record
