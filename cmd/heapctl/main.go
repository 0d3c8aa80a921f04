// Command heapctl exercises the segregated allocator over an anonymous
// memory region: it classifies requests, prints the partition layout, and
// runs randomized allocate/deallocate workloads.
package main

func main() {
	execute()
}
