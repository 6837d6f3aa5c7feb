package analyzer

import (
	"fmt"
	"strings"

	"gutenlens/internal/gutenberg"
)

func summaryPrompt(meta gutenberg.BookMetadata, sample string) string {
	return fmt.Sprintf(`Please provide a comprehensive summary of the book %q by %s.

Include the following in your summary:
1. Main plot points and narrative arc
2. Key characters and their development
3. Major themes and motifs
4. Writing style and tone
5. Historical or cultural context (if relevant)

Make the summary detailed enough to give a good understanding of the book, but concise enough to be readable in a few minutes.

Here is a sample of the book content to summarize:
%s

Provide a well-structured, engaging summary that captures the essence of the book.`, meta.Title, meta.Author, sample)
}

// genre prompts use a shorter slice of the sample
const genreExcerptLimit = 8000

func genrePrompt(meta gutenberg.BookMetadata, sample string) string {
	return fmt.Sprintf(`Based on the following excerpt from %q by %s, classify the genre of this book.
Consider elements such as setting, themes, style, and plot elements.
Provide a single primary genre and up to three subgenres if applicable.

Excerpt:
%s

Format your response as: Primary Genre: [genre], Subgenres: [subgenre1, subgenre2, subgenre3]`,
		meta.Title, meta.Author, excerpt(sample, genreExcerptLimit))
}

func chatPrompt(meta gutenberg.BookMetadata, query, context string) string {
	return fmt.Sprintf(`You are an expert on the book %q by %s. A user has asked the following question about the book:

%q

Please provide a detailed and accurate response based on the book's content. If the question cannot be answered based on the book content, explain why and provide general information that might be helpful.

Here are relevant sections from the book to reference:
%s

Provide a thoughtful, well-structured response that directly addresses the user's question with specific references to the book content where possible.`,
		meta.Title, meta.Author, query, context)
}

func chatFallbackPrompt(meta gutenberg.BookMetadata, query, context string) string {
	shorter := excerpt(context, 8000)
	if len(context) > 8000 {
		shorter += "..."
	}
	return fmt.Sprintf("Based on this excerpt from %q by %s, please answer: %q. Excerpt: %s",
		meta.Title, meta.Author, query, shorter)
}

// retrievalContext joins retrieved chunks into one reference block.
func retrievalContext(chunks []string) string {
	return strings.Join(chunks, "\n\n---\n\n")
}
